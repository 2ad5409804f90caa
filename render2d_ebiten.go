//go:build !headless

// render2d_ebiten.go - Ebiten-backed Renderer2D debug preview (spec 6:
// "a reference 2D preview backend ... a debug/smoke-test window that
// blits the background register/palette/OAM snapshot the core
// produces each scanline"). Grounded on video_backend_ebiten.go's
// EbitenOutput: a window brought up once via ebiten.RunGame in its own
// goroutine, fed frame data through a mutex-guarded buffer, generalized
// from "accept a full RGBA frame from UpdateFrame" to "accumulate one
// ScanlineSnapshot row at a time"; Draw presents the buffer as it
// stands at ebiten's own refresh rate, not in step with VBlank.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenPreview implements Renderer2D by painting, once per scanline,
// a debug strip derived from the BG scroll registers and palette: not
// a tile/sprite compositor (that compositing is explicitly the core's
// non-goal, spec 1), just enough of a live picture to see the register
// file moving while driving a ROM.
type EbitenPreview struct {
	mu      sync.Mutex
	pixels  []byte // RGBA, previewWidth*previewHeight*4
	window  *ebiten.Image
	running bool
	ready   chan struct{}
}

func NewEbitenPreview() *EbitenPreview {
	return &EbitenPreview{
		pixels: make([]byte, previewWidth*previewHeight*4),
		ready:  make(chan struct{}, 1),
	}
}

// Start brings up the preview window in its own goroutine, mirroring
// EbitenOutput.Start's "RunGame in a goroutine, wait for first Draw."
func (p *EbitenPreview) Start() error {
	if p.running {
		return nil
	}
	p.running = true
	ebiten.SetWindowSize(previewWidth*3, previewHeight*3)
	ebiten.SetWindowTitle("nds9core scanline preview")
	ebiten.SetWindowResizable(true)
	go func() {
		if err := ebiten.RunGame(p); err != nil {
			debugWarnf("render2d: ebiten preview exited: %v", err)
		}
	}()
	<-p.ready
	return nil
}

// Scanline implements Renderer2D: decodes the snapshot's palette entry
// selected by BG0's horizontal scroll into one pixel row, a cheap
// stand-in for real compositing that still reacts visibly to register
// writes.
func (p *EbitenPreview) Scanline(snap ScanlineSnapshot) {
	if snap.Scanline < 0 || snap.Scanline >= previewHeight {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	rowOff := snap.Scanline * previewWidth * 4
	for x := 0; x < previewWidth; x++ {
		entry := (int(snap.BgScrollX[0]) + x) % 256
		c := paletteEntryRGB(snap.Palette, entry)
		i := rowOff + x*4
		p.pixels[i+0] = c[0]
		p.pixels[i+1] = c[1]
		p.pixels[i+2] = c[2]
		p.pixels[i+3] = 255
	}
}

// paletteEntryRGB reads one BGR555 background-palette entry (spec
// 6's "palette ... snapshot") and expands it to 8-bit RGB.
func paletteEntryRGB(palette [sizePalette]byte, entry int) [3]byte {
	off := (entry % (sizePalette / 2)) * 2
	v := uint16(palette[off]) | uint16(palette[off+1])<<8
	r, g, b := unpackRgb555(v)
	return [3]byte{byte(r * 255), byte(g * 255), byte(b * 255)}
}

// Update/Draw/Layout implement ebiten.Game.
func (p *EbitenPreview) Update() error { return nil }

func (p *EbitenPreview) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	if p.window == nil {
		p.window = ebiten.NewImage(previewWidth, previewHeight)
	}
	p.window.WritePixels(p.pixels)
	p.mu.Unlock()

	select {
	case p.ready <- struct{}{}:
	default:
	}
	screen.DrawImage(p.window, nil)
	ebiten.SetWindowTitle(fmt.Sprintf("nds9core scanline preview - %.0f fps", ebiten.ActualFPS()))
}

func (p *EbitenPreview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return previewWidth, previewHeight
}
