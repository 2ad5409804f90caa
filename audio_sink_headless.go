//go:build headless

// audio_sink_headless.go - headless AudioSink, mirroring
// video_backend_headless.go's "same shape, no device" pattern.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

// HeadlessAudioSink discards every frame; it exists so callers can
// always construct an AudioSink regardless of build tag.
type HeadlessAudioSink struct {
	frameCount uint64
}

func NewHeadlessAudioSink() *HeadlessAudioSink { return &HeadlessAudioSink{} }

func (s *HeadlessAudioSink) WriteSamples(frames []int16) {
	s.frameCount += uint64(len(frames))
}
