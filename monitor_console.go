// monitor_console.go - the interactive raw-terminal debug console
// (spec 9's ambient debug tooling), grounded on the teacher's
// terminal_io.go/terminal_host.go raw-mode input handling generalized
// from a guest-visible MMIO terminal to a host-side debugger REPL
// feeding MachineMonitor.ExecuteCommand one line at a time.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"
)

func init() {
	compiledFeatures = append(compiledFeatures, "monitor:x-term")
}

// runMonitorConsole registers both CPUs with a MachineMonitor and
// drives an interactive REPL against it until the "x" (exit) or "g"
// (go) command returns true.
func runMonitorConsole(emu *Emulator) {
	arm9 := NewArmDebugAdapter("ARM9", emu.Arm9, emu.Bus9)
	arm7 := NewArmDebugAdapter("ARM7", emu.Arm7, emu.Bus7)

	mon := NewMachineMonitor()
	mon.RegisterCPU("ARM9", arm9)
	mon.RegisterCPU("ARM7", arm7)
	mon.Activate()
	mon.StartBreakpointListener()

	fd := int(os.Stdin.Fd())
	raw := term.IsTerminal(fd)
	var oldState *term.State
	if raw {
		var err error
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			raw = false
		} else {
			defer term.Restore(fd, oldState)
		}
	}

	flushed := 0
	flush := func() {
		for ; flushed < len(mon.outputLines); flushed++ {
			fmt.Print(mon.outputLines[flushed].Text + "\r\n")
		}
	}
	flush()
	fmt.Print("> ")

	reader := bufio.NewReader(os.Stdin)
	var line []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case '\r', '\n':
			fmt.Print("\r\n")
			input := string(line)
			line = line[:0]
			exit := mon.ExecuteCommand(input)
			flush()
			if exit {
				mon.Deactivate()
				return
			}
			fmt.Print("> ")
		case 3: // Ctrl+C
			mon.Deactivate()
			return
		case 127, 8: // backspace/delete
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Print("\b \b")
			}
		default:
			line = append(line, b)
			fmt.Printf("%c", b)
		}
	}
}
