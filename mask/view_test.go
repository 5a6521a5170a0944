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

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewView(t *testing.T) {
	v := NewView(100, 50)

	if v.Width() != 100 {
		t.Errorf("Width: got %d, want 100", v.Width())
	}
	if v.Height() != 50 {
		t.Errorf("Height: got %d, want 50", v.Height())
	}
	if v.Stride() < 100 {
		t.Errorf("Stride: got %d, want >= 100", v.Stride())
	}
	if v.Stride()%Alignment != 0 {
		t.Errorf("Stride not aligned: got %d, want multiple of %d", v.Stride(), Alignment)
	}
}

func TestNewView_ZeroDimensions(t *testing.T) {
	v := NewView(0, 0)
	if v.Width() != 0 || v.Height() != 0 {
		t.Errorf("Zero dimensions: got %dx%d, want 0x0", v.Width(), v.Height())
	}
	v = NewView(-1, 10)
	if v.Width() != 0 || v.Height() != 0 {
		t.Errorf("Negative width: got %dx%d, want 0x0", v.Width(), v.Height())
	}
}

func TestFromSlice(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		w, h, s int
		wantErr error
	}{
		{"exact", 5*3 + 4, 4, 4, 5, nil},
		{"tight", 12, 4, 3, 4, nil},
		{"short", 10, 4, 3, 4, ErrShortBuffer},
		{"stride_below_width", 64, 8, 2, 4, ErrInvalidDimensions},
		{"zero_height", 64, 8, 0, 8, ErrInvalidDimensions},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := FromSlice(make([]uint8, tc.size), tc.w, tc.h, tc.s)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err: got %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Width() != tc.w || v.Height() != tc.h || v.Stride() != tc.s {
				t.Errorf("got %dx%d/%d, want %dx%d/%d", v.Width(), v.Height(), v.Stride(), tc.w, tc.h, tc.s)
			}
		})
	}
}

func TestView_RowIsWidthLimited(t *testing.T) {
	v := NewView(10, 5)
	row := v.Row(2)
	if len(row) != 10 || cap(row) != 10 {
		t.Errorf("Row: got len=%d cap=%d, want 10/10", len(row), cap(row))
	}
	if v.Row(-1) != nil || v.Row(5) != nil {
		t.Error("out of range Row should return nil")
	}
}

func TestView_Region(t *testing.T) {
	v := NewView(8, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			v.Set(x, y, uint8(y*8+x))
		}
	}

	r := v.Region(Rect{Left: 2, Top: 1, Right: 5, Bottom: 4})
	if r.Width() != 3 || r.Height() != 3 {
		t.Fatalf("Region size: got %dx%d, want 3x3", r.Width(), r.Height())
	}
	if got := r.At(0, 0); got != 10 {
		t.Errorf("Region At(0,0): got %d, want 10", got)
	}
	if got := r.At(2, 2); got != 28 {
		t.Errorf("Region At(2,2): got %d, want 28", got)
	}

	// Writes through the region land in the parent.
	r.Set(1, 1, 200)
	if got := v.At(3, 2); got != 200 {
		t.Errorf("parent after region write: got %d, want 200", got)
	}

	// Regions are clamped to the view.
	c := v.Region(Rect{Left: -3, Top: 4, Right: 20, Bottom: 9})
	if c.Width() != 8 || c.Height() != 2 {
		t.Errorf("clamped Region: got %dx%d, want 8x2", c.Width(), c.Height())
	}
	if e := v.Region(Rect{Left: 9, Top: 0, Right: 12, Bottom: 2}); e.Width() != 0 || e.Height() != 0 {
		t.Errorf("disjoint Region: got %dx%d, want 0x0", e.Width(), e.Height())
	}
}

func TestView_FillFrame(t *testing.T) {
	v := NewView(5, 4)
	v.FillFrame(Rect{Left: 1, Top: 1, Right: 4, Bottom: 3}, 2)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			want := uint8(2)
			if x >= 1 && x < 4 && y >= 1 && y < 3 {
				want = 0
			}
			if got := v.At(x, y); got != want {
				t.Errorf("At(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestView_FillDoesNotTouchPadding(t *testing.T) {
	v := NewView(8, 3)
	sub := v.Region(Rect{Left: 2, Top: 0, Right: 6, Bottom: 3})
	sub.Fill(7)
	if got := v.Count(7); got != 12 {
		t.Errorf("Count(7): got %d, want 12", got)
	}
	if v.At(1, 1) != 0 || v.At(6, 1) != 0 {
		t.Error("Fill wrote outside the region")
	}
}

func TestView_CloneEqual(t *testing.T) {
	v := NewView(7, 3)
	v.Set(3, 1, 9)
	c := v.Clone()
	if !c.Equal(v) {
		t.Error("Clone should be Equal to the source")
	}
	c.Set(0, 0, 1)
	if c.Equal(v) {
		t.Error("Clone should be independent of the source")
	}
}

func TestGrayRoundTrip(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 4))
	img.SetGray(2, 3, color.Gray{Y: 42})
	v, err := FromGray(img)
	if err != nil {
		t.Fatalf("FromGray: %v", err)
	}
	if got := v.At(2, 3); got != 42 {
		t.Errorf("At(2,3): got %d, want 42", got)
	}
	out := v.Gray()
	if got := out.GrayAt(2, 3).Y; got != 42 {
		t.Errorf("Gray().GrayAt(2,3): got %d, want 42", got)
	}
}

func TestPyramid(t *testing.T) {
	p := NewPyramid(17, 10, 3)
	want := [][2]int{{17, 10}, {9, 5}, {5, 3}}
	if p.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", p.Len())
	}
	for i, w := range want {
		l := p.Level(i)
		if l.Width() != w[0] || l.Height() != w[1] {
			t.Errorf("level %d: got %dx%d, want %dx%d", i, l.Width(), l.Height(), w[0], w[1])
		}
	}
	if p.Level(3) != nil {
		t.Error("Level(3) should be nil")
	}
	p.Fill(5)
	if got := p.Level(2).Count(5); got != 15 {
		t.Errorf("Fill: got %d cells, want 15", got)
	}
}
