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

// segmask runs the segmentation mask kernels on image files.
//
// Usage:
//
//	segmask [-v] [-kernels NAME] COMMAND [flags] [FILE]
//
// Commands:
//
//	info       dispatch level, CPU features and registered implementations
//	verify     compare every implementation against the scalar reference
//	shrink     print the tight bounding rectangle of an index
//	fill       fill single-pixel holes of an index
//	relabel    replace one index with another
//	propagate  push an index from a parent mask into a child mask
//	motion     find moving regions between two frames
//
// Masks are 8-bit grayscale PNG, BMP or TIFF files, chosen by extension.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-segmask/segment"
)

// command is one subcommand. run receives the arguments after its name.
type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

// env carries the global settings into subcommands.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

var commands = []command{
	{"info", "dispatch level, CPU features and registered implementations", runInfo},
	{"verify", "compare every implementation against the scalar reference", runVerify},
	{"shrink", "print the tight bounding rectangle of an index", runShrink},
	{"fill", "fill single-pixel holes of an index", runFill},
	{"relabel", "replace one index with another", runRelabel},
	{"propagate", "push an index from a parent mask into a child mask", runPropagate},
	{"motion", "find moving regions between two frames", runMotion},
}

// errMismatch makes verify exit non-zero without an extra error line.
var errMismatch = errors.New("implementations disagree")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("segmask", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose (debug) logging")
	kernels := fs.String("kernels", "", "Kernel implementation to use (default: best for this CPU)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: segmask [-v] [-kernels NAME] COMMAND [flags] [FILE]\n\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-10s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(stderr, "\nGlobal flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	segment.SetLogger(logger)

	if *kernels != "" {
		if err := segment.Use(*kernels); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(&env{stdout: stdout, stderr: stderr, logger: logger}, fs.Args()[1:])
		switch {
		case err == nil, errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errMismatch):
			return 1
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	fmt.Fprintf(stderr, "Error: unknown command %q\n\n", name)
	fs.Usage()
	return 2
}

func runInfo(e *env, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "Dispatch level: %s\n", segment.CurrentName())
	fmt.Fprintf(e.stdout, "Vector width:   %d bytes\n", segment.CurrentWidth())

	features := segment.CPUFeatures()
	names := make([]string, 0, len(features))
	for name, ok := range features {
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	fmt.Fprintf(e.stdout, "CPU features:   %s\n", strings.Join(names, " "))

	current := segment.Current().Name
	fmt.Fprintf(e.stdout, "Implementations:\n")
	for _, impl := range segment.Implementations() {
		mark := " "
		if impl.Name == current {
			mark = "*"
		}
		eligible := ""
		if impl.Width > segment.CurrentWidth() {
			eligible = " (not eligible)"
		}
		fmt.Fprintf(e.stdout, "  %s %-8s width=%-2d priority=%d%s\n", mark, impl.Name, impl.Width, impl.Priority, eligible)
	}
	return nil
}
