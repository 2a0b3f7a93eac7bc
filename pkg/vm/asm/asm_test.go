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

package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileLiteralEncoding(t *testing.T) {
	code, err := Compile("PUSH1 5\nPUSH1 3\nADD\nHALT\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 5, 0x01, 3, 0x10, 0xFF}, code)
}

func TestCompileIgnoresBlankLinesAndComments(t *testing.T) {
	code, err := Compile("; a comment\nNOP\n\nHALT\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xFF}, code)
}

func TestCompileUnknownMnemonicErrors(t *testing.T) {
	_, err := Compile("NOTANOP\n")
	assert.Error(t, err)
}

func TestCompileSplopEncodesTwoBytes(t *testing.T) {
	code, err := Compile("SPLOP 1 2\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41, 1, 2}, code)
}

func TestDecompileRoundTrip(t *testing.T) {
	code, err := Compile("PUSH1 5\nPUSH1 3\nADD\nHALT\n")
	require.NoError(t, err)

	text, err := Decompile(code)
	require.NoError(t, err)
	assert.Equal(t, "PUSH1 0x5\nPUSH1 0x3\nADD\nHALT\n", text)

	recompiled, err := Compile(text)
	require.NoError(t, err)
	assert.Equal(t, code, recompiled)
}

func TestDecompileUnknownOpcodeErrors(t *testing.T) {
	_, err := Decompile([]byte{0x0F})
	assert.Error(t, err)
}
