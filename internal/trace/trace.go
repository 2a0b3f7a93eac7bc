// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

// Package trace renders pkg/vm.TraceEvent streams for humans: a line-at-a-
// time Writer for following a run live, and a buffered Table that prints a
// single aligned report once execution ends. Neither ever touches VM state;
// both are pure observers attached through vm.ExecuteTraced.
package trace

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/openSVM/lessvm-sub001/pkg/vm"
)

// Writer streams one colorized line per step to an underlying writer.
type Writer struct {
	out   io.Writer
	color bool
}

// NewWriter returns a streaming trace hook. color enables ANSI highlighting
// of the opcode mnemonic.
func NewWriter(out io.Writer, color bool) *Writer {
	return &Writer{out: out, color: color}
}

func (w *Writer) OnStep(ev vm.TraceEvent) {
	name := ev.Opcode.String()
	if w.color {
		name = color.New(color.FgCyan).Sprint(name)
	}
	fmt.Fprintf(w.out, "pc=%-6d %-20s depth=%-3d gas=%d\n", ev.PC, name, ev.StackDepth, ev.GasUsed)
}

// Table buffers every step and renders them as a single aligned table on
// Flush.
type Table struct {
	rows []vm.TraceEvent
}

// NewTable returns an empty buffered trace hook.
func NewTable() *Table { return &Table{} }

func (t *Table) OnStep(ev vm.TraceEvent) {
	t.rows = append(t.rows, ev)
}

// Flush renders the buffered rows to out and clears the buffer.
func (t *Table) Flush(out io.Writer) {
	tw := tablewriter.NewWriter(out)
	tw.SetHeader([]string{"PC", "Opcode", "Stack Depth", "Gas Used"})
	for _, ev := range t.rows {
		tw.Append([]string{
			fmt.Sprintf("%d", ev.PC),
			ev.Opcode.String(),
			fmt.Sprintf("%d", ev.StackDepth),
			fmt.Sprintf("%d", ev.GasUsed),
		})
	}
	tw.Render()
	t.rows = nil
}
