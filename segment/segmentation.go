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
	"fmt"

	"github.com/ajroetker/go-segmask/mask"
)

// ShrinkRegion returns the tightest rectangle inside r containing every pixel
// of m equal to index, or the zero Rect when there is none. m is not modified.
//
// It panics unless m is at least 3x3 and r is a non-empty rectangle inside m.
func ShrinkRegion(m *mask.View, index uint8, r mask.Rect) mask.Rect {
	checkMask("ShrinkRegion", m)
	if r.Empty() || !m.Bounds().Contains(r) {
		panic(fmt.Sprintf("segment.ShrinkRegion: rect %v outside mask %dx%d", r, m.Width(), m.Height()))
	}
	return Current().Kernels.ShrinkRegion(m, index, r)
}

// FillSingleHoles sets every interior pixel of m whose four 4-neighbours equal
// index to index. It panics unless m is at least 3x3.
func FillSingleHoles(m *mask.View, index uint8) {
	checkMask("FillSingleHoles", m)
	Current().Kernels.FillSingleHoles(m, index)
}

// ChangeIndex replaces every pixel of m equal to oldIndex with newIndex.
func ChangeIndex(m *mask.View, oldIndex, newIndex uint8) {
	Current().Kernels.ChangeIndex(m, oldIndex, newIndex)
}

// Propagate2x2 transfers currentIndex from parent into child, a mask at twice
// the resolution, consulting difference where a parent block is only partly
// labelled. Child pixels at or above invalidIndex are never written.
//
// It panics unless parent is at least 2x2, child is at least
// (2*pw-1)x(2*ph-1), and difference is at least as large as child.
func Propagate2x2(parent, child, difference *mask.View, currentIndex, invalidIndex, emptyIndex, differenceThreshold uint8) {
	pw, ph := parent.Width(), parent.Height()
	if pw < 2 || ph < 2 {
		panic(fmt.Sprintf("segment.Propagate2x2: parent %dx%d smaller than 2x2", pw, ph))
	}
	if child.Width() < 2*pw-1 || child.Height() < 2*ph-1 {
		panic(fmt.Sprintf("segment.Propagate2x2: child %dx%d too small for parent %dx%d",
			child.Width(), child.Height(), pw, ph))
	}
	if difference.Width() < child.Width() || difference.Height() < child.Height() {
		panic(fmt.Sprintf("segment.Propagate2x2: difference %dx%d smaller than child %dx%d",
			difference.Width(), difference.Height(), child.Width(), child.Height()))
	}
	Current().Kernels.Propagate2x2(parent, child, difference, currentIndex, invalidIndex, emptyIndex, differenceThreshold)
}

func checkMask(op string, m *mask.View) {
	if m.Width() < 3 || m.Height() < 3 {
		panic(fmt.Sprintf("segment.%s: mask %dx%d smaller than 3x3", op, m.Width(), m.Height()))
	}
}
