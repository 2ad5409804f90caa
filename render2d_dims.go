// render2d_dims.go - the DS top screen's native resolution, shared by
// both the windowed and headless Renderer2D backends (spec 6).

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

const (
	previewWidth  = 256
	previewHeight = 192
)
