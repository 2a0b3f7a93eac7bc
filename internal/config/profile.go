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

// Package config loads the TOML profile used by the local harness (test
// runners, benchmarks, the CPI simulator in hostsim). None of the VM's
// protocol constants (gas costs, MEM_CAP, stack capacity) are configurable;
// this only tunes how a harness drives the VM.
package config

import (
	"fmt"
	"os"

	"github.com/naoina/toml"
)

// Profile is the harness configuration shape.
type Profile struct {
	Gas struct {
		Limit uint64 `toml:"limit"`
	} `toml:"gas"`

	Ledger struct {
		Backend string `toml:"backend"` // "memory" or "leveldb"
		Path    string `toml:"path"`
	} `toml:"ledger"`

	Throttle struct {
		PerSecond float64 `toml:"per_second"`
		Burst     int     `toml:"burst"`
	} `toml:"throttle"`

	Trace struct {
		Enabled bool `toml:"enabled"`
		Color   bool `toml:"color"`
	} `toml:"trace"`
}

// Default returns the profile used when no file is supplied.
func Default() Profile {
	p := Profile{}
	p.Gas.Limit = 200_000
	p.Ledger.Backend = "memory"
	p.Throttle.PerSecond = 1000
	p.Throttle.Burst = 100
	p.Trace.Enabled = false
	p.Trace.Color = true
	return p
}

// Load reads and decodes a TOML profile from path.
func Load(path string) (Profile, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return p, nil
}
