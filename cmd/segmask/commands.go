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

package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-segmask/internal/conformance"
	"github.com/ajroetker/go-segmask/mask"
	"github.com/ajroetker/go-segmask/motion"
	"github.com/ajroetker/go-segmask/segment"
)

func runVerify(e *env, args []string) error {
	def := conformance.DefaultConfig()
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	iterations := fs.Int("iterations", def.Iterations, "Random inputs per size and operation")
	workers := fs.Int("workers", 0, "Parallel workers (default: GOMAXPROCS)")
	width := fs.Int("width", def.Width, "Base mask width")
	height := fs.Int("height", def.Height, "Base mask height")
	offset := fs.Int("offset", def.Offset, "Size offset for the two extra sizes")
	seed := fs.Int64("seed", def.Seed, "Random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := conformance.Config{
		Width: *width, Height: *height, Offset: *offset,
		Iterations: *iterations, Seed: *seed, Workers: *workers,
		Logger: e.logger,
	}
	report, err := conformance.Run(context.Background(), cfg, segment.Implementations())
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "Checked %s against base: %d cases\n", strings.Join(report.Implementations, ", "), report.Cases)
	if report.OK() {
		fmt.Fprintf(e.stdout, "OK\n")
		return nil
	}
	for _, m := range report.Mismatches {
		fmt.Fprintf(e.stdout, "MISMATCH %s\n", m)
	}
	return errMismatch
}

// indexFlag parses a uint8 flag value.
type indexFlag uint8

func (f *indexFlag) String() string { return strconv.Itoa(int(*f)) }

func (f *indexFlag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return errors.Errorf("%q is not a value in 0..255", s)
	}
	*f = indexFlag(v)
	return nil
}

// parseRect parses "left,top,right,bottom".
func parseRect(s string) (mask.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return mask.Rect{}, errors.Errorf("rect %q: want left,top,right,bottom", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return mask.Rect{}, errors.Wrapf(err, "rect %q", s)
		}
		v[i] = n
	}
	return mask.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}

func checkKernelMask(m *mask.View, path string) error {
	if m.Width() < 3 || m.Height() < 3 {
		return errors.Errorf("%s: mask %dx%d is smaller than 3x3", path, m.Width(), m.Height())
	}
	return nil
}

// oneInput parses fs and returns its single positional file argument.
func oneInput(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", errors.Errorf("%s: want exactly one input file, got %d", fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}

func runShrink(e *env, args []string) error {
	fs := flag.NewFlagSet("shrink", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var index indexFlag
	fs.Var(&index, "index", "Region index")
	rectStr := fs.String("rect", "", "Search rectangle left,top,right,bottom (default: whole mask)")
	path, err := oneInput(fs, args)
	if err != nil {
		return err
	}

	m, err := readMask(path)
	if err != nil {
		return err
	}
	if err := checkKernelMask(m, path); err != nil {
		return err
	}
	r := m.Bounds()
	if *rectStr != "" {
		if r, err = parseRect(*rectStr); err != nil {
			return err
		}
		if r.Empty() || !m.Bounds().Contains(r) {
			return errors.Errorf("rect %v is empty or outside mask %v", r, m.Bounds())
		}
	}

	got := segment.ShrinkRegion(m, uint8(index), r)
	if got.Empty() {
		fmt.Fprintf(e.stdout, "index %d not found in %v\n", index, r)
		return nil
	}
	fmt.Fprintf(e.stdout, "%v\n", got)
	return nil
}

func runFill(e *env, args []string) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var index indexFlag
	fs.Var(&index, "index", "Region index")
	out := fs.String("o", "", "Output file (required)")
	path, err := oneInput(fs, args)
	if err != nil {
		return err
	}
	if *out == "" {
		return errors.New("fill: -o is required")
	}

	m, err := readMask(path)
	if err != nil {
		return err
	}
	if err := checkKernelMask(m, path); err != nil {
		return err
	}
	before := m.Count(uint8(index))
	segment.FillSingleHoles(m, uint8(index))
	e.logger.Debug("filled holes", "index", int(index), "filled", m.Count(uint8(index))-before)
	return writeMask(*out, m)
}

func runRelabel(e *env, args []string) error {
	fs := flag.NewFlagSet("relabel", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var from, to indexFlag
	fs.Var(&from, "from", "Index to replace")
	fs.Var(&to, "to", "Replacement index")
	out := fs.String("o", "", "Output file (required)")
	path, err := oneInput(fs, args)
	if err != nil {
		return err
	}
	if *out == "" {
		return errors.New("relabel: -o is required")
	}

	m, err := readMask(path)
	if err != nil {
		return err
	}
	e.logger.Debug("relabel", "from", int(from), "to", int(to), "pixels", m.Count(uint8(from)))
	segment.ChangeIndex(m, uint8(from), uint8(to))
	return writeMask(*out, m)
}

func runPropagate(e *env, args []string) error {
	fs := flag.NewFlagSet("propagate", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	parentPath := fs.String("parent", "", "Parent mask (required)")
	childPath := fs.String("child", "", "Child mask at twice the resolution (required)")
	diffPath := fs.String("diff", "", "Difference image at child resolution (required)")
	out := fs.String("o", "", "Output file for the child mask (required)")
	current, invalid, empty, threshold := indexFlag(motion.MaskIndexSize), indexFlag(motion.MaskInvalid),
		indexFlag(motion.MaskNotVisited), indexFlag(motion.DefaultOptions().DifferenceExpansionMin)
	fs.Var(&current, "index", "Index to propagate")
	fs.Var(&invalid, "invalid", "Child values at or above this are left alone")
	fs.Var(&empty, "empty", "Value for child pixels that do not receive the index")
	fs.Var(&threshold, "threshold", "Difference a partly covered pixel must exceed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *parentPath == "" || *childPath == "" || *diffPath == "" || *out == "" {
		return errors.New("propagate: -parent, -child, -diff and -o are required")
	}

	parent, err := readMask(*parentPath)
	if err != nil {
		return err
	}
	child, err := readMask(*childPath)
	if err != nil {
		return err
	}
	diff, err := readMask(*diffPath)
	if err != nil {
		return err
	}

	pw, ph := parent.Width(), parent.Height()
	switch {
	case pw < 2 || ph < 2:
		return errors.Errorf("parent %dx%d is smaller than 2x2", pw, ph)
	case child.Width() < 2*pw-1 || child.Height() < 2*ph-1:
		return errors.Errorf("child %dx%d is too small for parent %dx%d", child.Width(), child.Height(), pw, ph)
	case diff.Width() < child.Width() || diff.Height() < child.Height():
		return errors.Errorf("difference %dx%d is smaller than child %dx%d", diff.Width(), diff.Height(), child.Width(), child.Height())
	}

	segment.Propagate2x2(parent, child, diff, uint8(current), uint8(invalid), uint8(empty), uint8(threshold))
	e.logger.Debug("propagated", "index", int(current), "pixels", child.Count(uint8(current)))
	return writeMask(*out, child)
}

func runMotion(e *env, args []string) error {
	def := motion.DefaultOptions()
	fs := flag.NewFlagSet("motion", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	prevPath := fs.String("prev", "", "Previous frame (required)")
	curPath := fs.String("cur", "", "Current frame (required)")
	out := fs.String("o", "", "Write the full resolution mask to this file")
	levels := fs.Int("levels", def.Levels, "Pyramid levels")
	area := fs.Int("area", def.RegionAreaMin, "Minimum region bounding-box area on the seed level")
	creation, expansion := indexFlag(def.DifferenceCreationMin), indexFlag(def.DifferenceExpansionMin)
	fs.Var(&creation, "creation", "Difference a pixel must exceed to seed a region")
	fs.Var(&expansion, "expansion", "Difference a pixel must exceed to join a region")
	fill := fs.Bool("fill", false, "Fill single-pixel holes in the output mask")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *prevPath == "" || *curPath == "" {
		return errors.New("motion: -prev and -cur are required")
	}

	prev, err := readMask(*prevPath)
	if err != nil {
		return err
	}
	cur, err := readMask(*curPath)
	if err != nil {
		return err
	}

	seg, err := motion.NewSegmenter(prev.Width(), prev.Height(),
		motion.WithLevels(*levels),
		motion.WithThresholds(uint8(creation), uint8(expansion)),
		motion.WithRegionAreaMin(*area),
		motion.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}
	defer seg.Close()

	if err := seg.SetFrames(prev, cur); err != nil {
		return err
	}
	regions, err := seg.Segment()
	if err != nil {
		return err
	}
	if *fill {
		if err := seg.FillHoles(0); err != nil {
			return err
		}
	}

	fmt.Fprintf(e.stdout, "%d regions\n", len(regions))
	for _, r := range regions {
		fmt.Fprintf(e.stdout, "%v\n", r)
	}
	if *out != "" {
		return writeMask(*out, seg.Mask(0))
	}
	return nil
}
