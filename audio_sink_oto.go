//go:build !headless

// audio_sink_oto.go - oto v3 AudioSink (spec 6: "audio ... narrow
// byte-level interfaces the core consumes but does not define").
// Grounded on audio_backend_oto.go's OtoPlayer: a ring buffer fed by
// WriteSamples (the AudioSink push side; no core component calls it) drained by
// oto's pull-based io.Reader (Read), generalized from OtoPlayer's
// single-producer SoundChip.ReadSampleFromRing to a plain
// mutex-guarded ring since this core has no separate sound-generator
// chip to read from.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

const otoRingCapacity = 1 << 14 // samples, stereo interleaved int16

// OtoAudioSink implements AudioSink on top of an oto playback context.
type OtoAudioSink struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	ring    [otoRingCapacity]int16
	head    int
	len     int
	started bool
}

func NewOtoAudioSink(sampleRate int) (*OtoAudioSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoAudioSink{ctx: ctx}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// WriteSamples implements AudioSink: pushes interleaved stereo PCM
// frames into the ring, dropping the oldest samples on overflow rather
// than blocking the caller (spec 7's "transient conditions never
// propagate as errors" extended to this narrow sink: a full ring is a
// dropped-audio event, not a core-visible error).
func (s *OtoAudioSink) WriteSamples(frames []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range frames {
		if s.len == otoRingCapacity {
			s.head = (s.head + 1) % otoRingCapacity
			s.len--
		}
		s.ring[(s.head+s.len)%otoRingCapacity] = f
		s.len++
	}
}

// Read implements io.Reader for oto's player, draining the ring or
// emitting silence once it runs dry.
func (s *OtoAudioSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(p) / 2
	for i := 0; i < n; i++ {
		var v int16
		if s.len > 0 {
			v = s.ring[s.head]
			s.head = (s.head + 1) % otoRingCapacity
			s.len--
		}
		p[i*2] = byte(v)
		p[i*2+1] = byte(v >> 8)
	}
	return len(p), nil
}

func (s *OtoAudioSink) Start() {
	if !s.started {
		s.player.Play()
		s.started = true
	}
}

func (s *OtoAudioSink) Stop() {
	if s.started {
		s.player.Pause()
		s.started = false
	}
}
