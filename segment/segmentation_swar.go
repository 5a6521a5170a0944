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

import "github.com/ajroetker/go-segmask/mask"

// swarKernels processes eight pixels per 64-bit word and unrolls the main
// loops to lanes bytes per step.
type swarKernels struct {
	lanes int // bytes per unrolled step, a multiple of 8
}

func newSWARKernels(lanes int) swarKernels {
	return swarKernels{lanes: max(lanes, wordWidth) / wordWidth * wordWidth}
}

// ShrinkRegion is BaseShrinkRegion with word-wide row and column tests.
func (k swarKernels) ShrinkRegion(m *mask.View, index uint8, r mask.Rect) mask.Rect {
	idx := splat(index)

	found := false
	for y := r.Top; y < r.Bottom; y++ {
		if k.rowHasIndex(m.Row(y)[r.Left:r.Right], index, idx) {
			r.Top = y
			found = true
			break
		}
	}
	if !found {
		return mask.Rect{}
	}

	for y := r.Bottom - 1; y >= r.Top; y-- {
		if k.rowHasIndex(m.Row(y)[r.Left:r.Right], index, idx) {
			r.Bottom = y + 1
			break
		}
	}

	r.Left = shrinkLeft(m, r, index, idx)
	r.Right = shrinkRight(m, r, index, idx)
	return r
}

func (k swarKernels) rowHasIndex(row []uint8, index uint8, idx uint64) bool {
	n := len(row)
	i := 0

	// Process full unrolled steps
	for ; i+k.lanes <= n; i += k.lanes {
		var acc uint64
		for j := i; j < i+k.lanes; j += wordWidth {
			acc |= eqFlags(loadWord(row, j), idx)
		}
		if acc != 0 {
			return true
		}
	}

	for ; i+wordWidth <= n; i += wordWidth {
		if eqFlags(loadWord(row, i), idx) != 0 {
			return true
		}
	}

	// Handle tail elements
	for ; i < n; i++ {
		if row[i] == index {
			return true
		}
	}
	return false
}

// colFlags ORs the equality flags of eight columns starting at x over rows [top, bottom).
func colFlags(m *mask.View, x, top, bottom int, idx uint64) uint64 {
	var acc uint64
	for y := top; y < bottom; y++ {
		acc |= eqFlags(loadWord(m.Row(y), x), idx)
	}
	return acc
}

// shrinkLeft returns the first column of r holding index. r must contain a match.
func shrinkLeft(m *mask.View, r mask.Rect, index uint8, idx uint64) int {
	x := r.Left
	for ; x+wordWidth <= r.Right; x += wordWidth {
		if acc := colFlags(m, x, r.Top, r.Bottom, idx); acc != 0 {
			return x + firstLane(acc)
		}
	}
	for ; x < r.Right; x++ {
		if colHasIndex(m, x, r.Top, r.Bottom, index) {
			return x
		}
	}
	return r.Left
}

// shrinkRight returns one past the last column of r holding index. r must contain a match.
func shrinkRight(m *mask.View, r mask.Rect, index uint8, idx uint64) int {
	x := r.Right - wordWidth
	for ; x >= r.Left; x -= wordWidth {
		if acc := colFlags(m, x, r.Top, r.Bottom, idx); acc != 0 {
			return x + lastLane(acc) + 1
		}
	}
	// Fewer than eight columns remain: [r.Left, x+wordWidth).
	for c := x + wordWidth - 1; c >= r.Left; c-- {
		if colHasIndex(m, c, r.Top, r.Bottom, index) {
			return c + 1
		}
	}
	return r.Right
}

// FillSingleHoles is BaseFillSingleHoles eight interior pixels at a time.
func (k swarKernels) FillSingleHoles(m *mask.View, index uint8) {
	width, height := m.Width(), m.Height()
	idx := splat(index)
	last := width - 1 // first border column on the right

	for y := 1; y < height-1; y++ {
		up, row, down := m.Row(y-1), m.Row(y), m.Row(y+1)
		x := 1

		// Process full unrolled steps; the right neighbour load ends at x+lanes <= last.
		for ; x+k.lanes <= last; x += k.lanes {
			for j := x; j < x+k.lanes; j += wordWidth {
				fillWord(up, row, down, j, idx)
			}
		}
		for ; x+wordWidth <= last; x += wordWidth {
			fillWord(up, row, down, x, idx)
		}

		// Handle tail elements
		for ; x < last; x++ {
			if up[x] == index && down[x] == index && row[x-1] == index && row[x+1] == index {
				row[x] = index
			}
		}
	}
}

func fillWord(up, row, down []uint8, x int, idx uint64) {
	f := eqFlags(loadWord(up, x), idx) &
		eqFlags(loadWord(down, x), idx) &
		eqFlags(loadWord(row, x-1), idx) &
		eqFlags(loadWord(row, x+1), idx)
	if f == 0 {
		return
	}
	storeWord(row, x, blend(widen(f), idx, loadWord(row, x)))
}

// ChangeIndex is BaseChangeIndex eight pixels at a time.
func (k swarKernels) ChangeIndex(m *mask.View, oldIndex, newIndex uint8) {
	oldIdx, newIdx := splat(oldIndex), splat(newIndex)
	for y := 0; y < m.Height(); y++ {
		row := m.Row(y)
		n := len(row)
		x := 0

		// Process full unrolled steps
		for ; x+k.lanes <= n; x += k.lanes {
			for j := x; j < x+k.lanes; j += wordWidth {
				changeWord(row, j, oldIdx, newIdx)
			}
		}
		for ; x+wordWidth <= n; x += wordWidth {
			changeWord(row, x, oldIdx, newIdx)
		}

		// Handle tail elements
		for ; x < n; x++ {
			if row[x] == oldIndex {
				row[x] = newIndex
			}
		}
	}
}

func changeWord(row []uint8, x int, oldIdx, newIdx uint64) {
	w := loadWord(row, x)
	if f := eqFlags(w, oldIdx); f != 0 {
		storeWord(row, x, blend(widen(f), newIdx, w))
	}
}

// Propagate2x2 is BasePropagate2x2 eight parent blocks (sixteen child
// columns) at a time.
func (k swarKernels) Propagate2x2(parent, child, difference *mask.View, currentIndex, invalidIndex, emptyIndex, differenceThreshold uint8) {
	width, height := parent.Width(), parent.Height()
	blocks := width - 1
	cur, inv, empty, thr := splat(currentIndex), splat(invalidIndex), splat(emptyIndex), splat(differenceThreshold)
	step := k.lanes // parent blocks per unrolled step

	for py := 0; py < height-1; py++ {
		p0, p1 := parent.Row(py), parent.Row(py+1)
		cy := 2*py + 1
		c0, c1 := child.Row(cy), child.Row(cy+1)
		d0, d1 := difference.Row(cy), difference.Row(cy+1)
		px := 0

		// The load at px+1 reads parent columns up to px+8, which must be < width.
		for ; px+step <= blocks; px += step {
			for j := px; j < px+step; j += wordWidth {
				all, one := blockFlags(p0, p1, j, cur)
				propagateWords(c0, c1, d0, d1, 2*j+1, all, one, cur, inv, empty, thr)
			}
		}
		for ; px+wordWidth <= blocks; px += wordWidth {
			all, one := blockFlags(p0, p1, px, cur)
			propagateWords(c0, c1, d0, d1, 2*px+1, all, one, cur, inv, empty, thr)
		}

		// Handle tail blocks
		for ; px < blocks; px++ {
			n := 0
			for _, v := range [4]uint8{p0[px], p0[px+1], p1[px], p1[px+1]} {
				if v == currentIndex {
					n++
				}
			}
			all, one := n == 4, n > 0
			cx := 2*px + 1
			for dx := 0; dx < 2; dx++ {
				propagateCell(c0, d0, cx+dx, all, one, currentIndex, invalidIndex, emptyIndex, differenceThreshold)
				propagateCell(c1, d1, cx+dx, all, one, currentIndex, invalidIndex, emptyIndex, differenceThreshold)
			}
		}
	}
}

// blockFlags returns byte masks for eight blocks starting at parent column px:
// all four cells equal cur, and at least one does.
func blockFlags(p0, p1 []uint8, px int, cur uint64) (all, one uint64) {
	a := eqFlags(loadWord(p0, px), cur)
	b := eqFlags(loadWord(p0, px+1), cur)
	c := eqFlags(loadWord(p1, px), cur)
	d := eqFlags(loadWord(p1, px+1), cur)
	return widen(a & b & c & d), widen(a | b | c | d)
}

// propagateWords applies the decision rule to the sixteen child columns
// starting at cx on both child rows.
func propagateWords(c0, c1, d0, d1 []uint8, cx int, all, one, cur, inv, empty, thr uint64) {
	for half := 0; half < 2; half++ {
		shift := 32 * half
		a := spread(uint32(all >> shift))
		o := spread(uint32(one >> shift))
		x := cx + wordWidth*half
		propagateWord(c0, d0, x, a, o, cur, inv, empty, thr)
		propagateWord(c1, d1, x, a, o, cur, inv, empty, thr)
	}
}

func propagateWord(child, difference []uint8, x int, all, one, cur, inv, empty, thr uint64) {
	c := loadWord(child, x)
	exceeded := widen(gtFlags(loadWord(difference, x), thr))
	promote := all | (one & exceeded)
	open := widen(ltFlags(c, inv))
	storeWord(child, x, blend(open, blend(promote, cur, empty), c))
}
