// external_interfaces.go - the narrow external-collaborator contracts
// spec 6 describes: a 2D scanline sink, and an audio PCM sink.
// Renderer3D (spec 6, 4.10) lives in
// geometry_dispatch.go next to the struct it's handed. Grounded on the
// teacher's GUIFrontend/VideoOutput split (gui_interface.go,
// video_interface.go): a small interface the core hands a snapshot
// struct to, never reaching into the collaborator's internals.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// ScanlineSnapshot is handed to the 2D renderer once per scanline
// (spec 6): "a snapshot of its background registers, window
// registers, palette and OAM snapshot." Field set recovered from
// original_source/dust's engine_2d/render.rs (SPEC_FULL.md) since
// spec.md itself only names the snapshot's coarse contents.
type ScanlineSnapshot struct {
	Scanline int

	BgControl [4]uint16
	BgScrollX [4]uint16
	BgScrollY [4]uint16
	BgRotA, BgRotB, BgRotC, BgRotD [2]int16 // BG2/BG3 affine params
	BgRefX, BgRefY                 [2]int32

	Win0Left, Win0Right, Win0Top, Win0Bottom uint8
	Win1Left, Win1Right, Win1Top, Win1Bottom uint8
	Win0Control, Win1Control                 uint8
	WinOutControl, WinObjControl             uint8

	MosaicControl uint16

	BlendMode    uint8
	BlendEVA     uint8
	BlendEVB     uint8
	BlendEVY     uint8
	MasterBright int16

	Palette [sizePalette]byte
	OAM     [sizeOAM]byte
}

// Renderer2D is the external scanline compositor (spec 1, 6): "the
// core treats the 2D engine as an opaque sink." A software
// implementation lives outside the core's scope entirely; in this
// module only the debug preview backends implement it: a smoke-test
// window (render2d_ebiten.go) and its headless counterpart
// (render2d_headless.go).
type Renderer2D interface {
	Scanline(ScanlineSnapshot)
}

// AudioSink is the narrow PCM sink spec 6 describes for audio ("narrow
// byte-level interfaces the core consumes but does not define"). No
// core component writes to it: DMA channels with the A7's
// "wireless/audio" start-timing (spec 4.6) copy bus to bus like any
// other channel. The mixer itself is out of scope.
type AudioSink interface {
	WriteSamples(frames []int16)
}
