//go:build !headless

// debug_clipboard.go - the monitor's "copy register dump to
// clipboard" command (spec 9), grounded on debug_commands.go's
// existing command-table pattern: one more named handler dispatched
// from ExecuteCommand, wired only for the interactive monitor.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"strings"

	"golang.design/x/clipboard"
)

func init() {
	compiledFeatures = append(compiledFeatures, "clipboard:x-clipboard")
}

func (m *MachineMonitor) cmdCopy(_ MonitorCommand) bool {
	entry := m.cpus[m.focusedID]
	if entry == nil {
		m.appendOutput("No CPU focused", colorRed)
		return false
	}
	if err := clipboard.Init(); err != nil {
		m.appendOutput(fmt.Sprintf("clipboard unavailable: %v", err), colorRed)
		return false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s registers:\n", entry.Label)
	for _, r := range entry.CPU.GetRegisters() {
		fmt.Fprintf(&sb, "%s=$%X\n", r.Name, r.Value)
	}
	clipboard.Write(clipboard.FmtText, []byte(sb.String()))
	m.appendOutput("Register dump copied to clipboard", colorCyan)
	return false
}
