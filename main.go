// main.go - the nds9core command-line entry point: parses BIOS/flag
// arguments, wires an Emulator to the default external-collaborator
// backends (render2d_ebiten.go/render3d_vulkan.go/audio_sink_oto.go,
// or their headless counterparts under the headless build tag), and
// drives the run loop. Grounded on the teacher's original main.go
// shape (boilerplate banner, flag parsing, peripheral construction,
// CPU start, GUI Show loop) generalized from "pick an IE32/M68K CPU
// and a GTK4 frontend" to "load both ARM BIOS images and run the
// scheduler-driven Runner."

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
)

// Version is the build identifier printed by -version and the
// feature-flag banner (features.go's printFeatures).
const Version = "0.1.0"

// audioSampleRate is the host output rate audio_sink_oto.go opens its
// player at; the DS's own audio DMA runs at whatever rate the guest
// configures (spec's audio-timed-DMA scope), resampling to this is a
// frontend concern outside the core.
const audioSampleRate = 48000

func boilerPlate() {
	fmt.Println("nds9core - a dual-ARM Nintendo DS system core")
	fmt.Println("License: GPLv3 or later")
}

// validateResolutionOverride accepts a caller-supplied preview window
// size only when both dimensions are set; a partial override (one
// dimension left at its zero value) is rejected rather than silently
// guessing the other one.
func validateResolutionOverride(width, height int) (int, int, bool) {
	if width > 0 && height > 0 {
		return width, height, true
	}
	return 0, 0, false
}

func main() {
	bios9Path := flag.String("bios9", "", "path to the ARM9 BIOS image")
	bios7Path := flag.String("bios7", "", "path to the ARM7 BIOS image")
	showVersion := flag.Bool("version", false, "print version and compiled features")
	previewW := flag.Int("preview-width", 0, "override the debug preview window width")
	previewH := flag.Int("preview-height", 0, "override the debug preview window height")
	instructions := flag.Uint64("run", 0, "run this many scheduler steps then exit (0 runs until interrupted)")
	monitor := flag.Bool("monitor", false, "drop into the interactive debug console instead of free-running")
	flag.Parse()

	if *showVersion {
		printFeatures()
		return
	}

	boilerPlate()

	if *bios9Path == "" || *bios7Path == "" {
		fmt.Println("Usage: nds9core -bios9 <path> -bios7 <path> [-run N]")
		os.Exit(1)
	}

	bios9, err := os.ReadFile(*bios9Path)
	if err != nil {
		fmt.Printf("error reading ARM9 BIOS: %v\n", err)
		os.Exit(1)
	}
	bios7, err := os.ReadFile(*bios7Path)
	if err != nil {
		fmt.Printf("error reading ARM7 BIOS: %v\n", err)
		os.Exit(1)
	}

	width, height := previewWidth, previewHeight
	if w, h, ok := validateResolutionOverride(*previewW, *previewH); ok {
		width, height = w, h
	}

	renderer2D := newDefaultRenderer2D()
	renderer3D := newDefaultRenderer3D(width, height)
	audioSink := newDefaultAudioSink(audioSampleRate)

	emu := NewEmulator(
		WithRenderer2D(renderer2D),
		WithRenderer3D(renderer3D),
		WithAudioSink(audioSink),
	)
	emu.LoadBios9(bios9)
	emu.LoadBios7(bios7)
	emu.Start()

	if starter, ok := renderer2D.(interface{ Start() error }); ok {
		if err := starter.Start(); err != nil {
			fmt.Printf("error starting preview renderer: %v\n", err)
			os.Exit(1)
		}
	}

	if *monitor {
		runMonitorConsole(emu)
		return
	}

	if *instructions > 0 {
		emu.RunInstructions(*instructions)
		return
	}

	for {
		emu.Step()
	}
}
