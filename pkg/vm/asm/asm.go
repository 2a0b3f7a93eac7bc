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

// Package asm is a convenience assembler/disassembler for the bytecode
// format in pkg/vm. It exists for tests and tooling; the VM itself never
// parses text, only the byte-exact encoding.
package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// mnemonic table mirrors pkg/vm's opcode assignments. It is duplicated
// rather than imported so this package stays a leaf with no dependency on
// the VM's internal types; the byte values are the wire contract both sides
// must agree on.
var mnemonics = map[string]struct {
	code    byte
	operand int // number of immediate bytes; -1 means splop-style (2 bytes fixed)
}{
	"NOP":    {0x00, 0},
	"PUSH1":  {0x01, 1},
	"PUSH2":  {0x02, 2},
	"PUSH4":  {0x03, 4},
	"PUSH8":  {0x04, 8},
	"POP":    {0x05, 0},
	"DUP":    {0x06, 1},
	"SWAP":   {0x07, 1},
	"ADD":    {0x10, 0},
	"SUB":    {0x11, 0},
	"MUL":    {0x12, 0},
	"DIV":    {0x13, 0},
	"MULDIV": {0x14, 0},
	"MIN":    {0x15, 0},
	"MAX":    {0x16, 0},
	"LOAD":   {0x20, 0},
	"STORE":  {0x21, 0},
	"LOADN":  {0x22, 1},
	"STOREN": {0x23, 1},
	"MSIZE":  {0x24, 0},
	"JUMP":   {0x30, 4},
	"JUMPI":  {0x31, 4},
	"CALL":   {0x32, 4},
	"RETURN": {0x33, 0},
	"TRANSFER": {0x40, 0},
	"SPLOP":    {0x41, -1},
	"CPI":      {0x42, 0},
	"LOG":      {0x43, 0},
	"GETBALANCE": {0x50, 0},
	"GETOWNER":   {0x51, 0},
	"ISWRITABLE": {0x52, 0},
	"ISSIGNER":   {0x53, 0},

	"BTREE_INSERT": {0x60, 8},
	"BTREE_GET":    {0x61, 8},
	"BTREE_REMOVE": {0x62, 8},
	"BTREE_RANGE":  {0x63, 8},

	"TRIE_INSERT":       {0x64, 8},
	"TRIE_GET":          {0x65, 8},
	"TRIE_PREFIX_COUNT": {0x66, 8},

	"GRAPH_ADD_NODE": {0x68, 8},
	"GRAPH_SET_NODE": {0x69, 8},
	"GRAPH_GET_NODE": {0x6A, 8},
	"GRAPH_ADD_EDGE": {0x6B, 8},
	"GRAPH_NEIGHBORS": {0x6C, 8},
	"GRAPH_BFS":       {0x6D, 8},
	"GRAPH_CLEAR":     {0x6E, 8},

	"BAR_ADD": {0x70, 8},
	"BAR_GET": {0x71, 8},
	"BAR_SMA": {0x72, 8},

	"HYPER_ADD_NODE":      {0x74, 8},
	"HYPER_ADD_EDGE":      {0x75, 8},
	"HYPER_ADD_NODE_EDGE": {0x76, 8},

	"VECADD": {0xA0, 0},
	"HALT":   {0xFF, 0},
}

var byCode = func() map[byte]string {
	m := make(map[byte]string, len(mnemonics))
	for name, info := range mnemonics {
		m[info.code] = name
	}
	return m
}()

// Compile assembles newline-separated "MNEMONIC operand" lines into the
// byte-exact program encoding. Blank lines and lines starting with ';' are
// ignored. Operands are parsed with strconv.ParseUint, base 0, so both
// decimal and 0x-prefixed hex are accepted.
func Compile(text string) ([]byte, error) {
	var out []byte
	for lineNo, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		name := strings.ToUpper(fields[0])
		info, ok := mnemonics[name]
		if !ok {
			return nil, fmt.Errorf("asm: line %d: unknown mnemonic %q", lineNo+1, fields[0])
		}
		out = append(out, info.code)
		switch info.operand {
		case 0:
			if len(fields) != 1 {
				return nil, fmt.Errorf("asm: line %d: %s takes no operand", lineNo+1, name)
			}
		case -1: // SPLOP: kind, argc
			if len(fields) != 3 {
				return nil, fmt.Errorf("asm: line %d: SPLOP requires kind and argc", lineNo+1)
			}
			kind, err := parseImm(fields[1])
			if err != nil {
				return nil, err
			}
			argc, err := parseImm(fields[2])
			if err != nil {
				return nil, err
			}
			out = append(out, byte(kind), byte(argc))
		default:
			if len(fields) != 2 {
				return nil, fmt.Errorf("asm: line %d: %s requires one operand", lineNo+1, name)
			}
			val, err := parseImm(fields[1])
			if err != nil {
				return nil, err
			}
			for i := 0; i < info.operand; i++ {
				out = append(out, byte(val>>(8*uint(i))))
			}
		}
	}
	return out, nil
}

func parseImm(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("asm: invalid operand %q: %w", s, err)
	}
	return v, nil
}

// Decompile renders a bytecode program back into assembly text, one
// instruction per line. It does not attempt to recover jump labels; targets
// are printed as raw offsets.
func Decompile(code []byte) (string, error) {
	var b strings.Builder
	pc := 0
	for pc < len(code) {
		op := code[pc]
		name, ok := byCode[op]
		if !ok {
			return "", fmt.Errorf("asm: unknown opcode 0x%02x at offset %d", op, pc)
		}
		pc++
		info := mnemonics[name]
		switch info.operand {
		case 0:
			fmt.Fprintf(&b, "%s\n", name)
		case -1:
			if pc+2 > len(code) {
				return "", fmt.Errorf("asm: truncated SPLOP operand at offset %d", pc)
			}
			fmt.Fprintf(&b, "%s %d %d\n", name, code[pc], code[pc+1])
			pc += 2
		default:
			if pc+info.operand > len(code) {
				return "", fmt.Errorf("asm: truncated operand for %s at offset %d", name, pc)
			}
			var val uint64
			for i := 0; i < info.operand; i++ {
				val |= uint64(code[pc+i]) << (8 * uint(i))
			}
			fmt.Fprintf(&b, "%s 0x%x\n", name, val)
			pc += info.operand
		}
	}
	return b.String(), nil
}
