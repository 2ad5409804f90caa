//go:build headless

// debug_clipboard_headless.go - "copy" command stub for builds with
// no host clipboard/display, mirroring render2d_headless.go's "same
// method set, no device" pattern.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

func (m *MachineMonitor) cmdCopy(_ MonitorCommand) bool {
	m.appendOutput("clipboard not available in a headless build", colorRed)
	return false
}
