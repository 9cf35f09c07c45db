// Package flight is a typed, context-aware front for
// golang.org/x/sync/singleflight.
package flight

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Group coalesces concurrent loads for the same key K so fn runs at most
// once per in-flight key; other callers share its result.
//
// Cancelling ctx unblocks only that caller. The leader's fn keeps running;
// pass ctx into fn if the work itself should stop.
type Group[K comparable, V any] struct {
	g singleflight.Group
}

// Do runs fn once for key and waits for the shared result or ctx.
// shared reports whether the result was delivered to more than one caller.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (v V, shared bool, err error) {
	ch := g.g.DoChan(flightKey(key), func() (any, error) {
		return fn()
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return v, res.Shared, res.Err
		}
		v, _ = res.Val.(V) // nil for interface-typed V
		return v, res.Shared, nil
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// flightKey renders key as singleflight's string key. Keys of static type
// string pass through. Everything else is prefixed with its dynamic type, so
// an interface-typed K holding 1 and "1" yields two different flights.
func flightKey[K comparable](key K) string {
	if _, ok := any((*K)(nil)).(*string); ok {
		return any(key).(string)
	}
	return fmt.Sprintf("%T\x00%#v", key, key)
}
