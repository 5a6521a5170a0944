// Copyright 2026 go-segmask Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package segment

import (
	"encoding/binary"
	"math/bits"
)

// Byte-lane operations on 64-bit words. A "flag" word carries 0x80 in every
// lane where a predicate holds and 0x00 elsewhere; a "mask" word carries
// 0xff/0x00 and is produced from flags by widen.
const (
	laneOnes = 0x0101010101010101
	laneLow7 = 0x7f7f7f7f7f7f7f7f
	laneHigh = 0x8080808080808080
)

// splat broadcasts b into all eight lanes.
func splat(b uint8) uint64 {
	return uint64(b) * laneOnes
}

func loadWord(b []uint8, i int) uint64 {
	return binary.LittleEndian.Uint64(b[i:])
}

func storeWord(b []uint8, i int, w uint64) {
	binary.LittleEndian.PutUint64(b[i:], w)
}

// eqFlags flags lanes where x == y. Exact: no carries cross lanes.
func eqFlags(x, y uint64) uint64 {
	v := x ^ y
	return ^(((v & laneLow7) + laneLow7) | v) & laneHigh
}

// ltFlags flags lanes where x < y as unsigned bytes.
func ltFlags(x, y uint64) uint64 {
	// High bit of each lane of t is set when the low 7 bits of x >= those of y.
	t := (x | laneHigh) - (y &^ laneHigh)
	return ((^x & y) | (^(x ^ y) &^ t)) & laneHigh
}

// gtFlags flags lanes where x > y as unsigned bytes.
func gtFlags(x, y uint64) uint64 {
	return ltFlags(y, x)
}

// widen turns a flag word into a full byte mask.
func widen(flags uint64) uint64 {
	return (flags >> 7) * 0xff
}

// blend selects a where m is set and b elsewhere.
func blend(m, a, b uint64) uint64 {
	return (a & m) | (b &^ m)
}

// spread duplicates each of the low four lanes: b0 b1 b2 b3 -> b0 b0 b1 b1 b2 b2 b3 b3.
func spread(x uint32) uint64 {
	w := uint64(x)
	w = (w | w<<16) & 0x0000ffff0000ffff
	w = (w | w<<8) & 0x00ff00ff00ff00ff
	return w | w<<8
}

// firstLane returns the lowest lane index with a flag set. flags must be non-zero.
func firstLane(flags uint64) int {
	return bits.TrailingZeros64(flags) / 8
}

// lastLane returns the highest lane index with a flag set. flags must be non-zero.
func lastLane(flags uint64) int {
	return (63 - bits.LeadingZeros64(flags)) / 8
}
