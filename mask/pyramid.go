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

package mask

// Pyramid is a stack of views at progressively halved resolution.
// Level 0 is full size; level i+1 is ((w+1)/2, (h+1)/2) of level i.
type Pyramid struct {
	levels []*View
}

// NewPyramid allocates a pyramid with the given number of levels.
func NewPyramid(width, height, levels int) *Pyramid {
	p := &Pyramid{levels: make([]*View, 0, max(levels, 0))}
	for i := 0; i < levels; i++ {
		p.levels = append(p.levels, NewView(width, height))
		width = (width + 1) / 2
		height = (height + 1) / 2
	}
	return p
}

// Len returns the number of levels.
func (p *Pyramid) Len() int {
	return len(p.levels)
}

// Level returns the view of level i, or nil if i is out of range.
func (p *Pyramid) Level(i int) *View {
	if i < 0 || i >= len(p.levels) {
		return nil
	}
	return p.levels[i]
}

// Fill sets every pixel of every level to value.
func (p *Pyramid) Fill(value uint8) {
	for _, l := range p.levels {
		l.Fill(value)
	}
}
