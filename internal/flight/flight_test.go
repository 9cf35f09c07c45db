package flight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Concurrent callers for one key share a single execution of fn.
func TestGroup_CoalescesSameKey(t *testing.T) {
	t.Parallel()

	var g Group[int, string]
	var calls atomic.Int64
	release := make(chan struct{})

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			v, _, err := g.Do(context.Background(), 7, func() (string, error) {
				calls.Add(1)
				<-release
				return "seven", nil
			})
			if err != nil || v != "seven" {
				t.Errorf("Do: got %q err=%v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond) // let followers join the flight
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn must run once, got %d", got)
	}
}

func TestGroup_PropagatesError(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	boom := errors.New("boom")
	_, _, err := g.Do(context.Background(), "k", func() (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

// A cancelled follower returns ctx.Err() while the leader finishes.
func TestGroup_FollowerCancellation(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	started := make(chan struct{})
	release := make(chan struct{})
	leaderDone := make(chan int, 1)

	go func() {
		v, _, _ := g.Do(context.Background(), "k", func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		leaderDone <- v
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Do(ctx, "k", func() (int, error) { return 2, nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("follower want context.Canceled, got %v", err)
	}

	close(release)
	if v := <-leaderDone; v != 1 {
		t.Fatalf("leader want 1, got %d", v)
	}
}

type pair struct{ a, b string }

// Field boundaries survive rendering, so distinct struct keys never share a flight.
func TestFlightKey_DistinctStructKeys(t *testing.T) {
	t.Parallel()

	if flightKey(pair{"a,b", ""}) == flightKey(pair{"a", "b,"}) {
		t.Fatal("distinct struct keys must map to different flight keys")
	}
	if flightKey(int64(5)) != flightKey(int64(5)) {
		t.Fatal("equal keys must map to equal flight keys")
	}
}

// With an interface-typed key, 1 and "1" are different map keys and must
// not share a load.
func TestGroup_InterfaceKeysOfDifferentTypes(t *testing.T) {
	t.Parallel()

	var g Group[any, string]
	started := make(chan struct{})
	release := make(chan struct{})
	leaderDone := make(chan string, 1)

	go func() {
		v, _, _ := g.Do(context.Background(), any(1), func() (string, error) {
			close(started)
			<-release
			return "int-one", nil
		})
		leaderDone <- v
	}()
	<-started

	v, shared, err := g.Do(context.Background(), any("1"), func() (string, error) {
		return "string-one", nil
	})
	close(release)
	if err != nil || v != "string-one" || shared {
		t.Fatalf(`Do("1") want "string-one" unshared, got %q shared=%v err=%v`, v, shared, err)
	}
	if v := <-leaderDone; v != "int-one" {
		t.Fatalf("Do(1) want int-one, got %q", v)
	}

	if flightKey[any](1) == flightKey[any]("1") {
		t.Fatal("int and string keys must map to different flight keys")
	}
	if flightKey("k") != "k" {
		t.Fatal("string keys pass through unchanged")
	}
}
