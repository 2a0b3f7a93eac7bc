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

// Command lessvm assembles and runs bytecode programs against the VM.
//
// Usage:
//
//	lessvm -asm <source.lvasm> -o <out.bin>
//	lessvm -run <program.bin> [-gas <limit>] [-trace] [-trace-table] [-config <profile.toml>]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openSVM/lessvm-sub001/internal/config"
	"github.com/openSVM/lessvm-sub001/internal/hostsim"
	"github.com/openSVM/lessvm-sub001/internal/trace"
	"github.com/openSVM/lessvm-sub001/internal/xlog"
	"github.com/openSVM/lessvm-sub001/pkg/vm"
	"github.com/openSVM/lessvm-sub001/pkg/vm/asm"
)

const version = "0.1.0"

func main() {
	var (
		asmSrc      = flag.String("asm", "", "assemble a mnemonic source file into bytecode")
		runBin      = flag.String("run", "", "run a bytecode file against the VM")
		output      = flag.String("o", "", "output file for -asm (default: stdout)")
		gasLimit    = flag.Uint64("gas", vm.DefaultGasLimit, "gas limit for -run")
		profilePath = flag.String("config", "", "harness TOML profile")
		traceFlag   = flag.Bool("trace", false, "stream a live trace while running")
		traceTable  = flag.Bool("trace-table", false, "print a trace table after running")
		ver         = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *ver {
		fmt.Printf("lessvm %s\n", version)
		return
	}

	profile := config.Default()
	if *profilePath != "" {
		p, err := config.Load(*profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		profile = p
	}

	switch {
	case *asmSrc != "":
		assembleFile(*asmSrc, *output)
	case *runBin != "":
		runFile(*runBin, *gasLimit, profile, *traceFlag, *traceTable)
	default:
		fmt.Fprintln(os.Stderr, "usage: lessvm -asm <src> -o <out> | -run <program.bin>")
		os.Exit(1)
	}
}

func assembleFile(path, output string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	code, err := asm.Compile(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assemble error: %v\n", err)
		os.Exit(1)
	}
	if output == "" {
		os.Stdout.Write(code)
		return
	}
	if err := os.WriteFile(output, code, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runFile(path string, gasLimit uint64, profile config.Profile, live, table bool) {
	code, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := xlog.New(nil, xlog.LevelInfo)
	ledger := hostsim.NewMemLedger()
	host := hostsim.New(ledger, nil)

	var hook vm.TraceHook
	var tbl *trace.Table
	switch {
	case live:
		hook = trace.NewWriter(os.Stdout, profile.Trace.Color)
	case table:
		tbl = trace.NewTable()
		hook = tbl
	}

	res, err := vm.ExecuteTraced(code, nil, [32]byte{}, host, gasLimit, hook)
	if err != nil {
		logger.Error("execution aborted", "err", err)
		os.Exit(1)
	}
	if tbl != nil {
		tbl.Flush(os.Stdout)
	}

	logger.Info("run finished", "state", res.State.String(), "gas_used", res.GasUsed)
	if res.State == vm.StateFaulted {
		logger.Error("fault", "kind", res.Fault.Kind.String(), "pc", res.Fault.PC)
		os.Exit(1)
	}
	fmt.Printf("stack: %v\n", res.Stack)
}
