// Copyright 2026 go-segmask Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()
	assert.Equal(t, 4, pool.Workers())

	def := New(0)
	defer def.Close()
	assert.Equal(t, runtime.GOMAXPROCS(0), def.Workers())
}

func TestRows(t *testing.T) {
	for _, height := range []int{1, 3, 4, 7, 100, 1081} {
		pool := New(4)
		seen := make([]int32, height)
		pool.Rows(height, func(top, bottom int) {
			for y := top; y < bottom; y++ {
				atomic.AddInt32(&seen[y], 1)
			}
		})
		pool.Close()

		for y, n := range seen {
			require.EqualValues(t, 1, n, "height %d row %d", height, y)
		}
	}
}

func TestRows_ZeroHeight(t *testing.T) {
	pool := New(2)
	defer pool.Close()
	called := false
	pool.Rows(0, func(top, bottom int) { called = true })
	assert.False(t, called)
}

func TestEach(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 257
	var sum atomic.Int64
	err := pool.Each(context.Background(), n, func(i int) error {
		sum.Add(int64(i))
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, n*(n-1)/2, sum.Load())
}

func TestEach_FirstErrorStops(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	boom := errors.New("boom")
	var calls atomic.Int64
	err := pool.Each(context.Background(), 10000, func(i int) error {
		calls.Add(1)
		if i == 10 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int64(10000))
}

func TestEach_Canceled(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pool.Each(ctx, 10, func(i int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClosedPoolRunsInline(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	var rows atomic.Int64
	pool.Rows(50, func(top, bottom int) { rows.Add(int64(bottom - top)) })
	assert.EqualValues(t, 50, rows.Load())

	var cases atomic.Int64
	require.NoError(t, pool.Each(context.Background(), 20, func(int) error {
		cases.Add(1)
		return nil
	}))
	assert.EqualValues(t, 20, cases.Load())
}
