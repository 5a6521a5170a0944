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

// Package conformance checks that every registered kernel implementation
// produces the same bytes as the scalar reference.
//
// Each case builds an input, runs the reference and a candidate on separate
// copies, and compares the results. Cases run in parallel on a worker pool
// and are seeded from their position, so a run is reproducible.
package conformance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-segmask/internal/workerpool"
	"github.com/ajroetker/go-segmask/mask"
	"github.com/ajroetker/go-segmask/segment"
)

// ErrInvalidConfig is returned when the size grid contains masks smaller
// than the kernels accept.
var ErrInvalidConfig = errors.New("conformance: invalid config")

// Operations checked by Run, in case order.
const (
	OpShrinkRegion    = "ShrinkRegion"
	OpFillSingleHoles = "FillSingleHoles"
	OpChangeIndex     = "ChangeIndex"
	OpPropagate2x2    = "Propagate2x2"
)

var operations = []string{OpShrinkRegion, OpFillSingleHoles, OpChangeIndex, OpPropagate2x2}

// Indices and threshold used by the generated cases.
const (
	index               = 3
	newIndex            = 2
	invalidIndex        = 2
	emptyIndex          = 0
	differenceThreshold = 128
)

// Config controls the size grid and repetition of a run.
type Config struct {
	// Width and Height are the base mask size. Offset produces the two
	// additional sizes (Width+Offset, Height-Offset) and (Width-Offset, Height+Offset).
	Width, Height, Offset int

	// Iterations is the number of random inputs per size and operation.
	Iterations int

	Seed    int64
	Workers int // <= 0 uses GOMAXPROCS

	// Logger receives one debug record per case and a warning per mismatch.
	// Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the grid used by the CLI verify command.
func DefaultConfig() Config {
	return Config{Width: 320, Height: 240, Offset: 9, Iterations: 4, Seed: 1}
}

// Size is a mask size in the grid.
type Size struct{ Width, Height int }

// Sizes returns the three sizes checked for cfg.
func (cfg Config) Sizes() []Size {
	return []Size{
		{cfg.Width, cfg.Height},
		{cfg.Width + cfg.Offset, cfg.Height - cfg.Offset},
		{cfg.Width - cfg.Offset, cfg.Height + cfg.Offset},
	}
}

func (cfg Config) validate() error {
	if cfg.Iterations <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "iterations=%d", cfg.Iterations)
	}
	for _, s := range cfg.Sizes() {
		if s.Width < 3 || s.Height < 3 {
			return errors.Wrapf(ErrInvalidConfig, "size %dx%d below 3x3", s.Width, s.Height)
		}
	}
	return nil
}

// Mismatch describes one case where a candidate disagreed with the reference.
type Mismatch struct {
	Implementation string
	Operation      string
	Size           Size
	Iteration      int
	Detail         string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s %dx%d #%d: %s",
		m.Implementation, m.Operation, m.Size.Width, m.Size.Height, m.Iteration, m.Detail)
}

// Report summarizes a run.
type Report struct {
	Implementations []string
	Cases           int
	Mismatches      []Mismatch
}

// OK reports whether every case matched.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

type testCase struct {
	impl      segment.Implementation
	op        string
	size      Size
	iteration int
}

// Run compares every implementation in impls except the reference against
// segment.BaseXxx over the grid described by cfg. Mismatches are reported,
// not returned as errors; an error means the run itself could not complete.
func Run(ctx context.Context, cfg Config, impls []segment.Implementation) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &Report{}
	var cases []testCase
	for _, impl := range impls {
		if impl.Name == "base" {
			continue
		}
		report.Implementations = append(report.Implementations, impl.Name)
		for _, size := range cfg.Sizes() {
			for _, op := range operations {
				for it := 0; it < cfg.Iterations; it++ {
					cases = append(cases, testCase{impl: impl, op: op, size: size, iteration: it})
				}
			}
		}
	}
	report.Cases = len(cases)

	pool := workerpool.New(cfg.Workers)
	defer pool.Close()

	var mu sync.Mutex
	err := pool.Each(ctx, len(cases), func(i int) error {
		c := cases[i]
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		detail := check(rng, c)
		logger.Debug("conformance case",
			"impl", c.impl.Name, "op", c.op, "width", c.size.Width, "height", c.size.Height,
			"iteration", c.iteration, "ok", detail == "")
		if detail == "" {
			return nil
		}
		m := Mismatch{
			Implementation: c.impl.Name,
			Operation:      c.op,
			Size:           c.size,
			Iteration:      c.iteration,
			Detail:         detail,
		}
		logger.Warn("conformance mismatch", "case", m.String())
		mu.Lock()
		report.Mismatches = append(report.Mismatches, m)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return report, errors.Wrap(err, "conformance run interrupted")
	}
	return report, nil
}

// check runs one case and returns a description of the difference, or "".
func check(rng *rand.Rand, c testCase) string {
	w, h := c.size.Width, c.size.Height
	k := c.impl.Kernels

	switch c.op {
	case OpShrinkRegion:
		m := mask.NewView(w, h)
		FillRhombMask(rng, m, RhombRect(w, h), index)
		got := k.ShrinkRegion(m, index, m.Bounds())
		want := segment.BaseShrinkRegion(m, index, m.Bounds())
		if got != want {
			return fmt.Sprintf("rect %v, want %v", got, want)
		}

	case OpFillSingleHoles:
		src := mask.NewView(w, h)
		FillRandomMask(rng, src, index)
		got, want := src.Clone(), src.Clone()
		k.FillSingleHoles(got, index)
		segment.BaseFillSingleHoles(want, index)
		return compareViews(got, want)

	case OpChangeIndex:
		src := mask.NewView(w, h)
		FillRandomMask(rng, src, index)
		got, want := src.Clone(), src.Clone()
		k.ChangeIndex(got, index, newIndex)
		segment.BaseChangeIndex(want, index, newIndex)
		return compareViews(got, want)

	case OpPropagate2x2:
		parent := mask.NewView(w, h)
		FillRandomMask(rng, parent, index)
		child := mask.NewView(2*w, 2*h)
		FillRandom(rng, child, 0, index-1)
		difference := mask.NewView(2*w, 2*h)
		FillRandom(rng, difference, 0, 255)
		got, want := child.Clone(), child.Clone()
		k.Propagate2x2(parent, got, difference, index, invalidIndex, emptyIndex, differenceThreshold)
		segment.BasePropagate2x2(parent, want, difference, index, invalidIndex, emptyIndex, differenceThreshold)
		return compareViews(got, want)

	default:
		return "unknown operation"
	}
	return ""
}

// compareViews returns the first differing pixel, or "".
func compareViews(got, want *mask.View) string {
	for y := 0; y < want.Height(); y++ {
		g, w := got.Row(y), want.Row(y)
		for x := range w {
			if g[x] != w[x] {
				return fmt.Sprintf("pixel (%d,%d) = %d, want %d", x, y, g[x], w[x])
			}
		}
	}
	return ""
}
