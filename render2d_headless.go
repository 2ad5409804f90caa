//go:build headless

// render2d_headless.go - headless Renderer2D, mirroring
// video_backend_headless.go's "same shape, no window" pattern.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

func init() {
	compiledFeatures = append(compiledFeatures, "render2d:headless")
}

// HeadlessPreview discards every scanline; it exists so callers can
// always construct a Renderer2D regardless of build tag.
type HeadlessPreview struct {
	frameCount uint64
}

func NewHeadlessPreview() *HeadlessPreview { return &HeadlessPreview{} }

func (h *HeadlessPreview) Scanline(snap ScanlineSnapshot) {
	if snap.Scanline == 0 {
		h.frameCount++
	}
}
