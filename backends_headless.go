//go:build headless

// backends_headless.go - headless counterpart to backends_default.go,
// mirroring audio_backend_headless.go's "same factory shape, no
// device" pattern.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

func newDefaultRenderer2D() Renderer2D { return NewHeadlessPreview() }

func newDefaultRenderer3D(width, height int) Renderer3D { return NewHeadlessRenderer3D(width, height) }

func newDefaultAudioSink(sampleRate int) AudioSink { return NewHeadlessAudioSink() }
