//go:build luacond

// debug_lua_condition.go - Lua-scripted breakpoint/watchpoint
// conditions (spec 4.2's watchpoint hook, spec 9's "feature-flag-gated
// callback" note), grounded on debug_conditions.go's
// BreakpointCondition generalized from a fixed comparison-op enum to
// an embedded Lua predicate - the same direction the teacher's own
// debug_conditions.go (simple ops) -> debug_commands.go (a richer
// expression console) generalization took.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import (
	lua "github.com/yuin/gopher-lua"
)

func init() {
	compiledFeatures = append(compiledFeatures, "luacond:gopher-lua")
}

// evalLuaCondition compiles and runs expr as a Lua expression with the
// focused CPU's registers and the breakpoint hit count exposed as
// globals, returning the boolean result of `return <expr>`. A compile
// or runtime error is treated as "condition not satisfied" rather than
// aborting the monitor's trap loop.
func evalLuaCondition(expr string, cpu DebuggableCPU, hitCount uint64) bool {
	L := lua.NewState()
	defer L.Close()

	regs := L.NewTable()
	for _, r := range cpu.GetRegisters() {
		regs.RawSetString(r.Name, lua.LNumber(r.Value))
	}
	L.SetGlobal("reg", regs)
	L.SetGlobal("pc", lua.LNumber(cpu.GetPC()))
	L.SetGlobal("hitcount", lua.LNumber(hitCount))

	if err := L.DoString("__ndsmonitor_result = (" + expr + ")"); err != nil {
		return false
	}
	result := L.GetGlobal("__ndsmonitor_result")
	return lua.LVAsBool(result)
}
