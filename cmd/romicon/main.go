// cmd/romicon is a standalone tool that extracts the icon/banner image
// embedded in a Nintendo DS ROM header and writes it out as a PNG. It has
// no dependency on the nds9core package, mirroring the teacher's own
// tools/font2rgba.go: read an image-shaped blob, convert it, write a
// file, nothing more.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// DS ROM header / banner layout (see GBATEK "DS Cartridge Header").
const (
	headerIconOffsetField = 0x68 // u32 LE: file offset of the banner block
	bannerTileDataOffset  = 0x20 // icon bitmap: 32x32px, 4bpp, 8x8 tiles
	bannerTileDataSize    = 0x200
	bannerPaletteOffset   = 0x220 // 16 entries, BGR555
	bannerPaletteSize     = 0x20

	iconWidthTiles  = 4
	iconHeightTiles = 4
	tileDim         = 8
	iconDim         = iconWidthTiles * tileDim // 32
)

func main() {
	romPath := flag.String("rom", "", "path to the .nds ROM file")
	outPath := flag.String("out", "icon.png", "output PNG path")
	scale := flag.Int("scale", 4, "nearest-neighbour upscale factor")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: romicon -rom <file.nds> [-out icon.png] [-scale 4]")
		os.Exit(1)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Printf("error reading ROM: %v\n", err)
		os.Exit(1)
	}

	img, err := decodeIcon(rom)
	if err != nil {
		fmt.Printf("error decoding icon: %v\n", err)
		os.Exit(1)
	}

	if *scale > 1 {
		img = upscale(img, *scale)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Printf("error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		fmt.Printf("error encoding PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%dx%d)\n", *outPath, img.Bounds().Dx(), img.Bounds().Dy())
}

// decodeIcon reads the banner's 4bpp tile bitmap and 16-color BGR555
// palette out of rom and composites them into an RGBA image. Palette
// index 0 is transparent, matching the DS banner convention.
func decodeIcon(rom []byte) (*image.RGBA, error) {
	if len(rom) < headerIconOffsetField+4 {
		return nil, fmt.Errorf("file too small to contain a ROM header")
	}
	bannerOff := int(binary.LittleEndian.Uint32(rom[headerIconOffsetField:]))

	tileStart := bannerOff + bannerTileDataOffset
	tileEnd := tileStart + bannerTileDataSize
	palStart := bannerOff + bannerPaletteOffset
	palEnd := palStart + bannerPaletteSize
	if tileEnd > len(rom) || palEnd > len(rom) {
		return nil, fmt.Errorf("banner block extends past end of file")
	}
	tiles := rom[tileStart:tileEnd]
	palRaw := rom[palStart:palEnd]

	palette := make([]color.RGBA, 16)
	for i := range palette {
		c := binary.LittleEndian.Uint16(palRaw[i*2:])
		palette[i] = bgr555ToRGBA(c, i == 0)
	}

	img := image.NewRGBA(image.Rect(0, 0, iconDim, iconDim))
	for ty := 0; ty < iconHeightTiles; ty++ {
		for tx := 0; tx < iconWidthTiles; tx++ {
			tileIdx := ty*iconWidthTiles + tx
			tileBytes := tiles[tileIdx*32 : tileIdx*32+32]
			for py := 0; py < tileDim; py++ {
				for px := 0; px < tileDim; px += 2 {
					b := tileBytes[py*4+px/2]
					lo := b & 0x0F
					hi := b >> 4
					x0 := tx*tileDim + px
					y0 := ty*tileDim + py
					img.Set(x0, y0, palette[lo])
					img.Set(x0+1, y0, palette[hi])
				}
			}
		}
	}
	return img, nil
}

// bgr555ToRGBA expands a 15-bit BGR555 color (bit 15 unused) to 8-bit
// RGBA, forcing full transparency for the palette's index-0 entry.
func bgr555ToRGBA(c uint16, transparent bool) color.RGBA {
	r := uint8(c&0x1F) << 3
	g := uint8((c>>5)&0x1F) << 3
	b := uint8((c>>10)&0x1F) << 3
	a := uint8(0xFF)
	if transparent {
		a = 0
	}
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// upscale nearest-neighbour scales img by factor, keeping the icon's
// blocky look intact rather than blurring it the way bilinear would.
func upscale(img *image.RGBA, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
