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

// Package xlog is the harness's structured logger. It never sits between
// the VM and a Fault: pkg/vm.Fault carries its own diagnostic fields and
// never depends on logging to be useful. xlog exists for the surrounding
// tooling (hostsim, the CPI simulator, benchmarks) to report what happened.
package xlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "????"
	}
}

var levelColor = map[Level]*color.Color{
	LevelDebug: color.New(color.FgHiBlack),
	LevelInfo:  color.New(color.FgGreen),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed, color.Bold),
}

// Logger writes leveled, caller-tagged lines to an underlying writer.
// Colorization is applied only when the destination is a real terminal,
// detected via go-isatty; go-colorable wraps os.Stdout/os.Stderr so the
// ANSI codes still render correctly on Windows consoles.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	color  bool
	minLvl Level
}

// New returns a Logger writing to w at minLvl and above. If w is nil,
// os.Stderr is used, colorized when it is a real terminal.
func New(w io.Writer, minLvl Level) *Logger {
	useColor := false
	if w == nil {
		if isatty.IsTerminal(os.Stderr.Fd()) {
			w = colorable.NewColorableStderr()
			useColor = true
		} else {
			w = os.Stderr
		}
	}
	return &Logger{out: w, color: useColor, minLvl: minLvl}
}

func (l *Logger) log(lvl Level, msg string, kv ...interface{}) {
	if lvl < l.minLvl {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	caller := ""
	if trace := stack.Trace().TrimRuntime(); len(trace) > 2 {
		caller = fmt.Sprintf(" %v", trace[2])
	}

	tag := lvl.String()
	if l.color {
		tag = levelColor[lvl].Sprint(tag)
	}

	fmt.Fprintf(l.out, "%s [%s]%s %s", time.Now().UTC().Format(time.RFC3339), tag, caller, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(l.out, " %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(l.out)
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.log(LevelDebug, msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.log(LevelInfo, msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.log(LevelWarn, msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.log(LevelError, msg, kv...) }
