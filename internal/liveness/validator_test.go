// SPDX-License-Identifier: MIT

package liveness

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Figoh-cpu/code/internal/directory"
	"github.com/Figoh-cpu/code/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func group(name string, addrs ...string) directory.Group {
	g := directory.Group{Name: name}
	for i, a := range addrs {
		g.Channels = append(g.Channels, directory.ChannelRecord{
			Name:    fmt.Sprintf("%s-%d", name, i),
			Address: a,
			Group:   name,
		})
	}
	return g
}

// recorder is a probe.Prober that records calls and answers from a fixed set.
type recorder struct {
	mu    sync.Mutex
	calls []string
	live  map[string]bool
}

func (r *recorder) Probe(_ context.Context, address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, address)
	return r.live[address]
}

func TestValidate_ProbesOnlyFirstChannel(t *testing.T) {
	rec := &recorder{live: map[string]bool{"http://a/1": true, "http://b/2": true}}
	groups := []directory.Group{
		group("A", "http://a/1", "http://a/2"),
		group("B", "http://b/1", "http://b/2"),
	}

	results, err := New(rec, Options{Workers: 2}).Validate(context.Background(), groups)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"http://a/1", "http://b/1"}, rec.calls)
	assert.Equal(t, []Result{
		{Group: "A", IsLive: true, Probed: true},
		{Group: "B", IsLive: false, Probed: true},
	}, results)
	assert.Equal(t, 1, LiveCount(results))
}

func TestValidate_EmptyGroupNotProbed(t *testing.T) {
	var calls atomic.Int32
	p := probe.Func(func(context.Context, string) bool {
		calls.Add(1)
		return true
	})

	results, err := New(p, Options{}).Validate(context.Background(), []directory.Group{
		{Name: "Empty"},
		group("Full", "http://x/1"),
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Result{Group: "Empty"}, results[0])
	assert.True(t, results[1].IsLive)
}

func TestValidate_ResultsFollowDeclarationOrder(t *testing.T) {
	var groups []directory.Group
	for i := range 20 {
		groups = append(groups, group(fmt.Sprintf("G%02d", i), fmt.Sprintf("http://x/%d", i)))
	}
	p := probe.Func(func(_ context.Context, addr string) bool {
		time.Sleep(time.Duration(rand.IntN(5)) * time.Millisecond)
		return true
	})

	results, err := New(p, Options{Workers: 8}).Validate(context.Background(), groups)
	require.NoError(t, err)
	require.Len(t, results, len(groups))
	for i, r := range results {
		assert.Equal(t, groups[i].Name, r.Group)
		assert.True(t, r.IsLive)
	}
}

func TestValidate_WorkerCapIsNeverExceeded(t *testing.T) {
	const workers = 3
	var inFlight, peak atomic.Int32

	p := probe.Func(func(context.Context, string) bool {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return true
	})

	var groups []directory.Group
	for i := range 25 {
		groups = append(groups, group(fmt.Sprintf("G%d", i), fmt.Sprintf("http://x/%d", i)))
	}

	_, err := New(p, Options{Workers: workers}).Validate(context.Background(), groups)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(workers))
	assert.Equal(t, int32(workers), peak.Load(), "pool should saturate with 25 slow probes")
}

func TestValidate_CancellationReturnsNoResults(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 10)
	p := probe.Func(func(ctx context.Context, _ string) bool {
		started <- struct{}{}
		<-ctx.Done()
		return false
	})

	groups := []directory.Group{
		group("A", "http://a"),
		group("B", "http://b"),
		group("C", "http://c"),
		group("D", "http://d"),
	}

	go func() {
		<-started
		cancel()
	}()

	results, err := New(p, Options{Workers: 2}).Validate(ctx, groups)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestValidate_RateLimitsLaunches(t *testing.T) {
	p := probe.Func(func(context.Context, string) bool { return true })
	groups := []directory.Group{
		group("A", "http://a"),
		group("B", "http://b"),
		group("C", "http://c"),
	}

	start := time.Now()
	_, err := New(p, Options{Workers: 3, Rate: 20}).Validate(context.Background(), groups)
	require.NoError(t, err)
	// burst 1 at 20/s: the third launch waits about 100ms
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestValidate_NoGroups(t *testing.T) {
	results, err := New(probe.Func(func(context.Context, string) bool { return true }), Options{}).
		Validate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNew_ClampsWorkers(t *testing.T) {
	p := probe.Func(func(context.Context, string) bool { return true })
	assert.Equal(t, DefaultWorkers, New(p, Options{}).Workers())
	assert.Equal(t, 1, New(p, Options{Workers: -5}).Workers())
	assert.Equal(t, MaxWorkers, New(p, Options{Workers: 1000}).Workers())
	assert.Equal(t, 7, New(p, Options{Workers: 7}).Workers())
}
