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

package aux

// Bar is one OHLCV candle.
type Bar struct {
	Timestamp uint64
	Open      uint64
	High      uint64
	Low       uint64
	Close     uint64
	Volume    uint64
}

// BarSeries is an append-only time series of OHLCV bars with strictly
// monotonic timestamps.
type BarSeries struct {
	bars []Bar
}

func newBarSeries() *BarSeries {
	return &BarSeries{}
}

// AddBar appends a bar. ok is false if ts does not strictly exceed the
// series' last timestamp.
func (b *BarSeries) AddBar(ts, o, h, l, c, v uint64) bool {
	if len(b.bars) > 0 && ts <= b.bars[len(b.bars)-1].Timestamp {
		return false
	}
	b.bars = append(b.bars, Bar{Timestamp: ts, Open: o, High: h, Low: l, Close: c, Volume: v})
	return true
}

// GetBar returns the bar at index i, 0-based.
func (b *BarSeries) GetBar(i uint64) (Bar, bool) {
	if i >= uint64(len(b.bars)) {
		return Bar{}, false
	}
	return b.bars[i], true
}

// Count returns the number of bars in the series.
func (b *BarSeries) Count() uint64 { return uint64(len(b.bars)) }

// SMA returns the integer-truncated average close over the most recent
// window bars. ok is false if window exceeds the bar count.
func (b *BarSeries) SMA(window uint64) (uint64, bool) {
	if window == 0 || window > uint64(len(b.bars)) {
		return 0, false
	}
	var sum uint64
	start := uint64(len(b.bars)) - window
	for i := start; i < uint64(len(b.bars)); i++ {
		sum += b.bars[i].Close
	}
	return sum / window, true
}
