//go:build headless

package main

import "testing"

func TestHeadlessAudioSinkCountsFrames(t *testing.T) {
	sink := NewHeadlessAudioSink()
	sink.WriteSamples(make([]int16, 128))
	sink.WriteSamples(make([]int16, 32))
	if sink.frameCount != 160 {
		t.Errorf("frameCount = %d, want 160", sink.frameCount)
	}
}

func TestHeadlessPreviewCountsFramesOnScanlineZero(t *testing.T) {
	preview := NewHeadlessPreview()
	preview.Scanline(ScanlineSnapshot{Scanline: 0})
	preview.Scanline(ScanlineSnapshot{Scanline: 1})
	preview.Scanline(ScanlineSnapshot{Scanline: 0})
	if preview.frameCount != 2 {
		t.Errorf("frameCount = %d, want 2", preview.frameCount)
	}
}

func TestHeadlessRenderer3DSwapBuffersNoPanic(t *testing.T) {
	r := NewHeadlessRenderer3D(64, 64)
	r.SwapBuffers(Renderer3DInput{})
	if r.GetFrame() == nil {
		t.Error("GetFrame() returned nil after SwapBuffers")
	}
	r.Destroy()
}

func TestDefaultBackendFactoriesAreHeadless(t *testing.T) {
	if _, ok := newDefaultRenderer2D().(*HeadlessPreview); !ok {
		t.Error("newDefaultRenderer2D() should return *HeadlessPreview under the headless tag")
	}
	if _, ok := newDefaultRenderer3D(64, 64).(*HeadlessRenderer3D); !ok {
		t.Error("newDefaultRenderer3D() should return *HeadlessRenderer3D under the headless tag")
	}
	if _, ok := newDefaultAudioSink(48000).(*HeadlessAudioSink); !ok {
		t.Error("newDefaultAudioSink() should return *HeadlessAudioSink under the headless tag")
	}
}
