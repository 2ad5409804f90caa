//go:build headless

// render3d_headless.go - headless Renderer3D (spec 6, 4.10): the same
// CPU rasterizer render3d_vulkan.go wraps a live Vulkan device around,
// used directly with no GPU device at all. Mirrors
// voodoo_vulkan_headless.go's "same shape, no GPU" pattern.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

func init() {
	compiledFeatures = append(compiledFeatures, "render3d:headless")
}

// HeadlessRenderer3D implements Renderer3D with no GPU device,
// exercising the software rasterizer only.
type HeadlessRenderer3D struct {
	sw *softwareRenderer3D
}

func NewHeadlessRenderer3D(width, height int) *HeadlessRenderer3D {
	return &HeadlessRenderer3D{sw: newSoftwareRenderer3D(width, height)}
}

func (r *HeadlessRenderer3D) SwapBuffers(in Renderer3DInput) { r.sw.SwapBuffers(in) }

func (r *HeadlessRenderer3D) GetFrame() []byte { return r.sw.GetFrame() }

func (r *HeadlessRenderer3D) Destroy() {}
