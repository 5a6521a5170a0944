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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-segmask/mask"
	"github.com/ajroetker/go-segmask/segment"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Cleanup(func() {
		_ = segment.Use("")
		segment.SetLogger(nil)
	})
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func writeTestMask(t *testing.T, name string, v *mask.View) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, writeMask(path, v))
	return path
}

func TestInfo(t *testing.T) {
	code, out, _ := runCLI(t, "info")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Dispatch level: "+segment.CurrentName())
	assert.Contains(t, out, "base")
	assert.Contains(t, out, "swar128")
	assert.Contains(t, out, "* ")
}

func TestGlobalKernels(t *testing.T) {
	code, out, _ := runCLI(t, "-kernels", "base", "info")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "* base")

	code, _, errOut := runCLI(t, "-kernels", "missing", "info")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown implementation")
}

func TestUsage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Commands:")

	code, _, errOut = runCLI(t, "bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "bogus"`)
}

func TestVerify(t *testing.T) {
	code, out, _ := runCLI(t, "verify", "-width", "40", "-height", "30", "-offset", "5", "-iterations", "2", "-workers", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "OK")

	code, _, errOut := runCLI(t, "verify", "-width", "4", "-height", "4", "-offset", "3")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid config")
}

func TestShrink(t *testing.T) {
	m := mask.NewView(20, 12)
	m.Set(4, 3, 9)
	m.Set(15, 8, 9)
	path := writeTestMask(t, "mask.png", m)

	code, out, _ := runCLI(t, "shrink", "-index", "9", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "(4,3,16,9)\n", out)

	code, out, _ = runCLI(t, "shrink", "-index", "9", "-rect", "10,0,20,12", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "(15,8,16,9)\n", out)

	code, out, _ = runCLI(t, "shrink", "-index", "7", path)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "not found")

	code, _, errOut := runCLI(t, "shrink", "-index", "9", "-rect", "0,0,30,5", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "outside mask")

	code, _, errOut = runCLI(t, "shrink", "-index", "300", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "0..255")
}

func TestFill_BMP(t *testing.T) {
	m := mask.NewView(9, 9)
	m.Fill(4)
	m.Set(4, 4, 0)
	m.Set(0, 0, 0)
	in := writeTestMask(t, "holes.bmp", m)
	out := filepath.Join(t.TempDir(), "filled.bmp")

	code, _, errOut := runCLI(t, "fill", "-index", "4", "-o", out, in)
	require.Equal(t, 0, code, errOut)

	got, err := readMask(out)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), got.At(4, 4))
	assert.Equal(t, uint8(0), got.At(0, 0))
}

func TestRelabel_TIFF(t *testing.T) {
	m := mask.NewView(17, 5)
	m.Set(1, 1, 3)
	m.Set(16, 4, 3)
	in := writeTestMask(t, "in.tiff", m)
	out := filepath.Join(t.TempDir(), "out.tif")

	code, _, errOut := runCLI(t, "relabel", "-from", "3", "-to", "200", "-o", out, in)
	require.Equal(t, 0, code, errOut)

	got, err := readMask(out)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count(200))
	assert.Zero(t, got.Count(3))

	code, _, errOut = runCLI(t, "relabel", "-from", "3", "-to", "4", "-o", filepath.Join(t.TempDir(), "x.jpg"), in)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unsupported output format")
}

func TestPropagate(t *testing.T) {
	parent := mask.NewView(3, 3)
	parent.Fill(3)
	child := mask.NewView(6, 6)
	diff := mask.NewView(6, 6)
	child.Set(2, 2, 2) // locked
	dir := t.TempDir()
	pp, cp, dp := filepath.Join(dir, "p.png"), filepath.Join(dir, "c.png"), filepath.Join(dir, "d.png")
	require.NoError(t, writeMask(pp, parent))
	require.NoError(t, writeMask(cp, child))
	require.NoError(t, writeMask(dp, diff))
	out := filepath.Join(dir, "out.png")

	code, _, errOut := runCLI(t, "propagate", "-parent", pp, "-child", cp, "-diff", dp, "-o", out)
	require.Equal(t, 0, code, errOut)

	got, err := readMask(out)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Count(3))
	assert.Equal(t, uint8(2), got.At(2, 2))
	assert.Equal(t, uint8(0), got.At(0, 0))

	code, _, errOut = runCLI(t, "propagate", "-parent", cp, "-child", pp, "-diff", dp, "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "too small")
}

func TestMotion(t *testing.T) {
	prev, cur := mask.NewView(96, 64), mask.NewView(96, 64)
	for y := 12; y < 40; y++ {
		for x := 20; x < 52; x++ {
			cur.Set(x, y, 230)
		}
	}
	dir := t.TempDir()
	pp, cp := filepath.Join(dir, "prev.png"), filepath.Join(dir, "cur.png")
	require.NoError(t, writeMask(pp, prev))
	require.NoError(t, writeMask(cp, cur))
	out := filepath.Join(dir, "mask.png")

	code, stdout, errOut := runCLI(t, "motion", "-prev", pp, "-cur", cp, "-o", out, "-fill")
	require.Equal(t, 0, code, errOut)
	assert.True(t, strings.HasPrefix(stdout, "1 regions\n"), stdout)
	assert.Contains(t, stdout, "region 3 level 2")

	m, err := readMask(out)
	require.NoError(t, err)
	assert.Positive(t, m.Count(3))

	code, _, errOut = runCLI(t, "motion", "-prev", pp)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "-prev and -cur are required")
}

func TestParseRect(t *testing.T) {
	r, err := parseRect("1, 2,3,4")
	require.NoError(t, err)
	assert.Equal(t, mask.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}, r)

	_, err = parseRect("1,2,3")
	assert.Error(t, err)
	_, err = parseRect("a,2,3,4")
	assert.Error(t, err)
}
