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

package motion

import (
	"io"
	"log/slog"
	"math"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-segmask/internal/workerpool"
	"github.com/ajroetker/go-segmask/mask"
	"github.com/ajroetker/go-segmask/segment"
)

// Mask values. Region indices start at MaskIndexSize.
const (
	MaskNotVisited uint8 = 0
	MaskSeed       uint8 = 1
	MaskInvalid    uint8 = 2
	MaskIndexSize  uint8 = 3
)

// ErrTooManyRegions is returned when a frame holds more regions than fit in
// the byte-wide index space.
var ErrTooManyRegions = errors.New("motion: too many regions")

// ErrInvalidSearchRegion is returned for search regions outside the pyramid.
var ErrInvalidSearchRegion = errors.New("motion: invalid search region")

// minLevelSize is the smallest level side the mask kernels accept.
const minLevelSize = 3

// SearchRegion restricts seeding to Rect on pyramid level Level.
type SearchRegion struct {
	Level int
	Rect  mask.Rect
}

// Segmenter finds moving regions in a difference image. It keeps the mask
// and difference pyramids between calls and is not safe for concurrent use.
type Segmenter struct {
	opts       Options
	kernels    segment.Kernels
	logger     *slog.Logger
	pool       *workerpool.Pool
	mask       *mask.Pyramid
	difference *mask.Pyramid
	regions    []*Region
}

// NewSegmenter allocates pyramids for frames of the given size.
func NewSegmenter(width, height int, opts ...Option) (*Segmenter, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Levels < 1 {
		return nil, errors.Wrapf(ErrInvalidOptions, "levels=%d", o.Levels)
	}
	if o.DifferenceExpansionMin > o.DifferenceCreationMin {
		return nil, errors.Wrapf(ErrInvalidOptions, "expansion threshold %d above creation threshold %d",
			o.DifferenceExpansionMin, o.DifferenceCreationMin)
	}
	if o.RegionAreaMin < 0 {
		return nil, errors.Wrapf(ErrInvalidOptions, "region area min %d", o.RegionAreaMin)
	}

	// The coarsest level must still fit the kernels.
	w, h := width, height
	for i := 0; i < o.Levels-1; i++ {
		w, h = (w+1)/2, (h+1)/2
	}
	if w < minLevelSize || h < minLevelSize {
		return nil, errors.Wrapf(ErrInvalidOptions, "frame %dx%d too small for %d levels", width, height, o.Levels)
	}

	k, name, err := o.kernels()
	if err != nil {
		return nil, err
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Debug("segmenter created", "width", width, "height", height, "levels", o.Levels, "kernels", name)

	return &Segmenter{
		opts:       o,
		kernels:    k,
		logger:     logger,
		pool:       workerpool.New(o.Workers),
		mask:       mask.NewPyramid(width, height, o.Levels),
		difference: mask.NewPyramid(width, height, o.Levels),
	}, nil
}

// Close stops the worker pool.
func (s *Segmenter) Close() {
	s.pool.Close()
}

// Options returns the effective options.
func (s *Segmenter) Options() Options {
	return s.opts
}

// Levels returns the number of pyramid levels.
func (s *Segmenter) Levels() int {
	return s.mask.Len()
}

// Mask returns the segmentation mask of a level, or nil if out of range.
func (s *Segmenter) Mask(level int) *mask.View {
	return s.mask.Level(level)
}

// Difference returns the difference image of a level, or nil if out of range.
func (s *Segmenter) Difference(level int) *mask.View {
	return s.difference.Level(level)
}

// Regions returns the regions found by the last Segment call.
func (s *Segmenter) Regions() []*Region {
	return s.regions
}

// SetDifference copies d into level 0 and rebuilds the coarser levels by
// reducing it level by level.
func (s *Segmenter) SetDifference(d *mask.View) error {
	base := s.difference.Level(0)
	if !mask.SameSize(d, base) {
		return errors.Wrapf(ErrSizeMismatch, "difference %dx%d, segmenter %dx%d",
			d.Width(), d.Height(), base.Width(), base.Height())
	}
	base.CopyFrom(d)
	for i := 1; i < s.difference.Len(); i++ {
		s.difference.Level(i).Fill(0)
	}
	return propagateDifference(s.difference)
}

// SetFrames computes |cur-prev| on every level of the frame pyramids and
// then folds each level into the next coarser one with a per-pixel maximum.
func (s *Segmenter) SetFrames(prev, cur *mask.View) error {
	base := s.difference.Level(0)
	if !mask.SameSize(prev, cur) || !mask.SameSize(prev, base) {
		return errors.Wrapf(ErrSizeMismatch, "prev %dx%d, cur %dx%d, segmenter %dx%d",
			prev.Width(), prev.Height(), cur.Width(), cur.Height(), base.Width(), base.Height())
	}
	s.pool.Rows(base.Height(), func(top, bottom int) {
		absDifferenceRows(prev, cur, base, top, bottom)
	})
	if err := frameDifferences(s.difference, prev, cur); err != nil {
		return err
	}
	return propagateDifference(s.difference)
}

// DefaultSearch returns the whole interior of the coarsest level.
func (s *Segmenter) DefaultSearch() []SearchRegion {
	level := s.mask.Len() - 1
	return []SearchRegion{{Level: level, Rect: s.mask.Level(level).Bounds().AddBorder(-1)}}
}

// Segment labels moving regions in the current difference pyramid. With no
// search regions the interior of the coarsest level is searched.
//
// For every search region, pixels whose difference exceeds the creation
// threshold become seeds. Each seed grows a 4-connected region over pixels
// above the expansion threshold. Regions whose bounding box is too small are
// marked invalid; the rest are propagated level by level down to full
// resolution, and dropped if they vanish on the way.
func (s *Segmenter) Segment(search ...SearchRegion) ([]*Region, error) {
	if len(search) == 0 {
		search = s.DefaultSearch()
	}
	for _, sr := range search {
		if sr.Level < 0 || sr.Level >= s.mask.Len() {
			return nil, errors.Wrapf(ErrInvalidSearchRegion, "level %d of %d", sr.Level, s.mask.Len())
		}
		if sr.Rect.Intersect(s.mask.Level(sr.Level).Bounds()).Empty() {
			return nil, errors.Wrapf(ErrInvalidSearchRegion, "rect %v outside level %d", sr.Rect, sr.Level)
		}
	}

	s.regions = nil
	s.mask.Fill(MaskNotVisited)
	for _, sr := range search {
		m := s.mask.Level(sr.Level)
		m.FillFrame(m.Bounds().AddBorder(-1), MaskInvalid)
	}

	for _, sr := range search {
		if err := s.segmentSearchRegion(sr); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("segmentation done", "regions", len(s.regions), "search_regions", len(search))
	return s.regions, nil
}

func (s *Segmenter) segmentSearchRegion(sr SearchRegion) error {
	m, diff := s.mask.Level(sr.Level), s.difference.Level(sr.Level)
	rect := sr.Rect.Intersect(m.Bounds())

	for y := rect.Top; y < rect.Bottom; y++ {
		mr, dr := m.Row(y), diff.Row(y)
		for x := rect.Left; x < rect.Right; x++ {
			if dr[x] > s.opts.DifferenceCreationMin && mr[x] == MaskNotVisited {
				mr[x] = MaskSeed
			}
		}
	}

	roi := s.shrinkRoi(m, rect, MaskSeed).Intersect(sr.Rect)
	for y := roi.Top; y < roi.Bottom; y++ {
		for x := roi.Left; x < roi.Right; x++ {
			if m.At(x, y) != MaskSeed {
				continue
			}
			if len(s.regions)+int(MaskIndexSize) > math.MaxUint8 {
				return errors.Wrapf(ErrTooManyRegions, "%d regions", len(s.regions))
			}
			r := newRegion(uint8(len(s.regions))+MaskIndexSize, sr.Level)
			r.Rect = s.grow(m, diff, mask.Point{X: x, Y: y}, r.Index)

			if r.Rect.Area() <= s.opts.RegionAreaMin {
				s.kernels.ChangeIndex(m.Region(r.Rect), r.Index, MaskInvalid)
				s.logger.Debug("region too small", "index", r.Index, "rect", r.Rect.String())
				continue
			}
			if !s.computeIndex(r) {
				s.logger.Debug("region vanished", "index", r.Index, "level", sr.Level)
				continue
			}
			r.Center = r.Rect.Center()
			s.regions = append(s.regions, r)
			s.logger.Debug("region found", "index", r.Index, "rect", r.Rect.String())
		}
	}
	return nil
}

var neighbours = [4]mask.Point{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}}

// grow labels the 4-connected component of start with index and returns its
// bounding rectangle. Pixels join when their difference exceeds the
// expansion threshold and they are not yet part of a region.
func (s *Segmenter) grow(m, diff *mask.View, start mask.Point, index uint8) mask.Rect {
	var rect mask.Rect
	stack := []mask.Point{start}
	m.Set(start.X, start.Y, index)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rect = rect.UnionPoint(p)
		for _, d := range neighbours {
			n := p.Add(d)
			if !m.Bounds().ContainsPoint(n) {
				continue
			}
			if diff.AtPoint(n) > s.opts.DifferenceExpansionMin && m.AtPoint(n) <= MaskSeed {
				m.Set(n.X, n.Y, index)
				stack = append(stack, n)
			}
		}
	}
	return rect
}

// shrinkRoi tightens roi around index and adds a one-pixel border.
// An empty roi or one without index yields the zero Rect.
func (s *Segmenter) shrinkRoi(m *mask.View, roi mask.Rect, index uint8) mask.Rect {
	roi = roi.Intersect(m.Bounds())
	if roi.Empty() {
		return mask.Rect{}
	}
	r := s.kernels.ShrinkRegion(m, index, roi)
	if r.Empty() {
		return mask.Rect{}
	}
	return r.AddBorder(1)
}

// expandRoi maps a parent rectangle to child coordinates, with a one-pixel
// margin, clipped to bounds.
func expandRoi(parent, bounds mask.Rect) mask.Rect {
	r := mask.Rect{
		Left:   2*parent.Left - 1,
		Top:    2*parent.Top - 1,
		Right:  2*parent.Right + 1,
		Bottom: 2*parent.Bottom + 1,
	}
	return r.AddBorder(1).Intersect(bounds)
}

// computeIndex carries r from its seed level down to level 0, recording the
// rectangle at each level. If the region disappears on the way its index is
// invalidated on every level already visited and computeIndex returns false.
func (s *Segmenter) computeIndex(r *Region) bool {
	top := r.Level
	r.Rects[top] = r.Rect
	for level := top; level > 0; level-- {
		parent, child, diff := s.mask.Level(level), s.mask.Level(level-1), s.difference.Level(level-1)

		src := r.Rect
		src.Right++
		src.Bottom++
		s.kernels.Propagate2x2(parent.Region(src), child.Region(src.Scale(2)), diff.Region(src.Scale(2)),
			r.Index, MaskInvalid, MaskNotVisited, s.opts.DifferenceExpansionMin)

		interior := child.Bounds().AddBorder(-1)
		r.Rect = s.shrinkRoi(child, expandRoi(r.Rect, interior), r.Index).Intersect(interior)
		if r.Rect.Empty() {
			r.Rect = mask.Rect{}
		}
		r.Rects[level-1] = r.Rect

		if r.Rect.Empty() {
			for l := level; l <= top; l++ {
				s.kernels.ChangeIndex(s.mask.Level(l).Region(r.Rects[l]), r.Index, MaskInvalid)
			}
			return false
		}
	}
	return true
}

// FillHoles fills single-pixel holes of every region on a level. It is a
// cleanup step for callers that render or measure the masks.
func (s *Segmenter) FillHoles(level int) error {
	m := s.mask.Level(level)
	if m == nil {
		return errors.Wrapf(ErrInvalidSearchRegion, "level %d of %d", level, s.mask.Len())
	}
	for _, r := range s.regions {
		s.kernels.FillSingleHoles(m, r.Index)
	}
	return nil
}

// MergeRegions relabels src as dst on every level both regions cover and
// grows dst to include src. src is removed from Regions.
func (s *Segmenter) MergeRegions(dst, src *Region) {
	if dst == src {
		return
	}
	for l := 0; l < min(len(dst.Rects), len(src.Rects)); l++ {
		if src.Rects[l].Empty() {
			continue
		}
		s.kernels.ChangeIndex(s.mask.Level(l).Region(src.Rects[l]), src.Index, dst.Index)
		dst.Rects[l] = dst.Rects[l].Union(src.Rects[l])
	}
	dst.Rect = dst.Rect.Union(src.Rect)
	dst.Center = dst.Rect.Center()

	for i, r := range s.regions {
		if r == src {
			s.regions = append(s.regions[:i], s.regions[i+1:]...)
			break
		}
	}
}
