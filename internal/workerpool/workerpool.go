// Copyright 2026 go-segmask Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs row bands and independent test cases on a fixed
// set of goroutines that live as long as the pool.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.Rows(height, func(top, bottom int) {
//	    for y := top; y < bottom; y++ {
//	        processRow(y)
//	    }
//	})
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of worker goroutines. It is safe for concurrent use;
// calls to Rows and Each block until their own work is done.
type Pool struct {
	workers   int
	tasks     chan task
	closeOnce sync.Once
	closed    atomic.Bool
}

type task struct {
	fn   func()
	done *sync.WaitGroup
}

// New starts a pool with the given number of workers.
// If workers <= 0, uses GOMAXPROCS.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan task, workers*2),
	}
	for i := 0; i < workers; i++ {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	for t := range p.tasks {
		t.fn()
		t.done.Done()
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// Close stops the workers after pending work completes. Later calls run
// their work on the calling goroutine. Calling Close more than once is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.tasks)
	})
}

// Rows splits [0, height) into contiguous bands, one per worker, and calls
// fn(top, bottom) for each band.
func (p *Pool) Rows(height int, fn func(top, bottom int)) {
	if height <= 0 {
		return
	}
	workers := min(p.workers, height)
	if workers == 1 || p.closed.Load() {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for top := 0; top < height; top += band {
		top := top
		bottom := min(top+band, height)
		wg.Add(1)
		p.tasks <- task{fn: func() { fn(top, bottom) }, done: &wg}
	}
	wg.Wait()
}

// Each calls fn for every i in [0, n), handing out indices one at a time so
// uneven cases balance across workers. After the first error, or once ctx is
// done, no new indices are started; Each returns that error.
func (p *Pool) Each(ctx context.Context, n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	var (
		next    atomic.Int64
		errOnce sync.Once
		first   error
		stop    atomic.Bool
	)
	fail := func(err error) {
		errOnce.Do(func() { first = err })
		stop.Store(true)
	}
	run := func() {
		for !stop.Load() {
			i := int(next.Add(1)) - 1
			if i >= n {
				return
			}
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if err := fn(i); err != nil {
				fail(err)
				return
			}
		}
	}

	workers := min(p.workers, n)
	if workers == 1 || p.closed.Load() {
		run()
		return first
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		p.tasks <- task{fn: run, done: &wg}
	}
	wg.Wait()
	return first
}
