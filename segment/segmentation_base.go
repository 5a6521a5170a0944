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

// baseKernels routes the Kernels interface to the scalar reference.
type baseKernels struct{}

func (baseKernels) ShrinkRegion(m *mask.View, index uint8, r mask.Rect) mask.Rect {
	return BaseShrinkRegion(m, index, r)
}

func (baseKernels) FillSingleHoles(m *mask.View, index uint8) {
	BaseFillSingleHoles(m, index)
}

func (baseKernels) ChangeIndex(m *mask.View, oldIndex, newIndex uint8) {
	BaseChangeIndex(m, oldIndex, newIndex)
}

func (baseKernels) Propagate2x2(parent, child, difference *mask.View, currentIndex, invalidIndex, emptyIndex, differenceThreshold uint8) {
	BasePropagate2x2(parent, child, difference, currentIndex, invalidIndex, emptyIndex, differenceThreshold)
}

// BaseShrinkRegion returns the tightest rectangle inside r that contains every
// pixel equal to index, or the zero Rect when r holds no such pixel.
//
// The scans run top, bottom, left, right; the column scans only visit the rows
// left after the row scans.
func BaseShrinkRegion(m *mask.View, index uint8, r mask.Rect) mask.Rect {
	found := false
	for y := r.Top; y < r.Bottom; y++ {
		if rowHasIndex(m.Row(y)[r.Left:r.Right], index) {
			r.Top = y
			found = true
			break
		}
	}
	if !found {
		return mask.Rect{}
	}

	for y := r.Bottom - 1; y >= r.Top; y-- {
		if rowHasIndex(m.Row(y)[r.Left:r.Right], index) {
			r.Bottom = y + 1
			break
		}
	}

	for x := r.Left; x < r.Right; x++ {
		if colHasIndex(m, x, r.Top, r.Bottom, index) {
			r.Left = x
			break
		}
	}

	for x := r.Right - 1; x >= r.Left; x-- {
		if colHasIndex(m, x, r.Top, r.Bottom, index) {
			r.Right = x + 1
			break
		}
	}
	return r
}

func rowHasIndex(row []uint8, index uint8) bool {
	for _, v := range row {
		if v == index {
			return true
		}
	}
	return false
}

func colHasIndex(m *mask.View, x, top, bottom int, index uint8) bool {
	for y := top; y < bottom; y++ {
		if m.Row(y)[x] == index {
			return true
		}
	}
	return false
}

// BaseFillSingleHoles sets every interior pixel whose four 4-neighbours equal
// index to index. The one-pixel border is never written.
//
// Updating in place gives the same result as reading a snapshot: a pixel is
// only filled when its right and lower neighbours already equal index, and
// those are the only later pixels that read it.
func BaseFillSingleHoles(m *mask.View, index uint8) {
	width, height := m.Width(), m.Height()
	for y := 1; y < height-1; y++ {
		up, row, down := m.Row(y-1), m.Row(y), m.Row(y+1)
		for x := 1; x < width-1; x++ {
			if up[x] == index && down[x] == index && row[x-1] == index && row[x+1] == index {
				row[x] = index
			}
		}
	}
}

// BaseChangeIndex replaces every pixel equal to oldIndex with newIndex.
func BaseChangeIndex(m *mask.View, oldIndex, newIndex uint8) {
	for y := 0; y < m.Height(); y++ {
		row := m.Row(y)
		for x, v := range row {
			if v == oldIndex {
				row[x] = newIndex
			}
		}
	}
}

// BasePropagate2x2 pushes currentIndex from a parent mask down to a child
// mask at twice the resolution.
//
// Every parent anchor (x, y) with x < width-1 and y < height-1 reads the 2x2
// block (x..x+1, y..y+1). The four child pixels (2x+1+dx, 2y+1+dy) that are
// below invalidIndex become currentIndex when the whole block is
// currentIndex, or when part of it is and difference at the same child
// pixel exceeds differenceThreshold. Otherwise they become emptyIndex.
// Child row 0 and column 0 are never written.
func BasePropagate2x2(parent, child, difference *mask.View, currentIndex, invalidIndex, emptyIndex, differenceThreshold uint8) {
	width, height := parent.Width(), parent.Height()
	for py := 0; py < height-1; py++ {
		p0, p1 := parent.Row(py), parent.Row(py+1)
		cy := 2*py + 1
		c0, c1 := child.Row(cy), child.Row(cy+1)
		d0, d1 := difference.Row(cy), difference.Row(cy+1)

		for px := 0; px < width-1; px++ {
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

func propagateCell(child, difference []uint8, x int, all, one bool, currentIndex, invalidIndex, emptyIndex, differenceThreshold uint8) {
	if child[x] >= invalidIndex {
		return
	}
	if all || (one && difference[x] > differenceThreshold) {
		child[x] = currentIndex
	} else {
		child[x] = emptyIndex
	}
}
