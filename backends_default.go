//go:build !headless

// backends_default.go - picks the windowed/GPU reference backends
// (spec 6's external-collaborator interfaces) so main.go can stay
// build-tag agnostic, mirroring the teacher's AUDIO_BACKEND_OTO /
// VIDEO_BACKEND_EBITEN default-selection constants in main.go's
// commented-out original.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

func newDefaultRenderer2D() Renderer2D { return NewEbitenPreview() }

func newDefaultRenderer3D(width, height int) Renderer3D { return NewVulkanRenderer3D(width, height) }

func newDefaultAudioSink(sampleRate int) AudioSink {
	sink, err := NewOtoAudioSink(sampleRate)
	if err != nil {
		debugWarnf("audio: oto init failed, falling back to headless sink: %v", err)
		return NewHeadlessAudioSink()
	}
	return sink
}
