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
	"testing"
)

func word(b [8]uint8) uint64 {
	return binary.LittleEndian.Uint64(b[:])
}

func lanes(w uint64) [8]uint8 {
	var b [8]uint8
	binary.LittleEndian.PutUint64(b[:], w)
	return b
}

// TestCompareFlags checks every byte pair in every lane, with neighbouring
// lanes holding values that would leak a carry or borrow.
func TestCompareFlags(t *testing.T) {
	fillers := [][2]uint8{{0, 0}, {0xff, 0}, {0, 0xff}, {0x80, 0x7f}, {0x7f, 0x80}}
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			for lane := 0; lane < 8; lane++ {
				f := fillers[(a+b+lane)%len(fillers)]
				var xs, ys [8]uint8
				for i := range xs {
					xs[i], ys[i] = f[0], f[1]
				}
				xs[lane], ys[lane] = uint8(a), uint8(b)
				x, y := word(xs), word(ys)

				eq, lt, gt := lanes(eqFlags(x, y)), lanes(ltFlags(x, y)), lanes(gtFlags(x, y))
				for i := range xs {
					if got, want := eq[i] == 0x80, xs[i] == ys[i]; got != want || (eq[i] != 0 && eq[i] != 0x80) {
						t.Fatalf("eqFlags(%#x, %#x) lane %d: got %#x, want %v", x, y, i, eq[i], want)
					}
					if got, want := lt[i] == 0x80, xs[i] < ys[i]; got != want || (lt[i] != 0 && lt[i] != 0x80) {
						t.Fatalf("ltFlags(%#x, %#x) lane %d: got %#x, want %v", x, y, i, lt[i], want)
					}
					if got, want := gt[i] == 0x80, xs[i] > ys[i]; got != want || (gt[i] != 0 && gt[i] != 0x80) {
						t.Fatalf("gtFlags(%#x, %#x) lane %d: got %#x, want %v", x, y, i, gt[i], want)
					}
				}
			}
		}
	}
}

func TestWidenBlend(t *testing.T) {
	flags := word([8]uint8{0x80, 0, 0x80, 0x80, 0, 0, 0, 0x80})
	m := widen(flags)
	if want := word([8]uint8{0xff, 0, 0xff, 0xff, 0, 0, 0, 0xff}); m != want {
		t.Errorf("widen: got %#x, want %#x", m, want)
	}

	got := lanes(blend(m, splat(7), splat(3)))
	want := [8]uint8{7, 3, 7, 7, 3, 3, 3, 7}
	if got != want {
		t.Errorf("blend: got %v, want %v", got, want)
	}
}

func TestSpread(t *testing.T) {
	got := lanes(spread(0x44332211))
	want := [8]uint8{0x11, 0x11, 0x22, 0x22, 0x33, 0x33, 0x44, 0x44}
	if got != want {
		t.Errorf("spread: got %#v, want %#v", got, want)
	}
}

func TestFirstLastLane(t *testing.T) {
	tests := []struct {
		lanes       [8]uint8
		first, last int
	}{
		{[8]uint8{0x80, 0, 0, 0, 0, 0, 0, 0}, 0, 0},
		{[8]uint8{0, 0, 0, 0, 0, 0, 0, 0x80}, 7, 7},
		{[8]uint8{0, 0x80, 0, 0, 0x80, 0, 0, 0}, 1, 4},
		{[8]uint8{0, 0, 0xff, 0xff, 0xff, 0, 0, 0}, 2, 4},
	}
	for _, tt := range tests {
		w := word(tt.lanes)
		if got := firstLane(w); got != tt.first {
			t.Errorf("firstLane(%#x): got %d, want %d", w, got, tt.first)
		}
		if got := lastLane(w); got != tt.last {
			t.Errorf("lastLane(%#x): got %d, want %d", w, got, tt.last)
		}
	}
}
