//go:build !luacond

// debug_lua_condition_stub.go - evalLuaCondition without the
// gopher-lua scripting engine compiled in, mirroring the teacher's
// same-shape headless-vs-device build-tag pairs elsewhere in this
// tree (render2d_headless.go, audio_sink_headless.go).

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

func evalLuaCondition(expr string, cpu DebuggableCPU, hitCount uint64) bool {
	debugWarnf("lua condition %q ignored: built without the luacond tag", expr)
	return false
}
