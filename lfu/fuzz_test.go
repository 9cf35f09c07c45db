package lfu

import "testing"

// FuzzLFU_Ops interprets the input as an operation stream and checks the
// structural invariants after every step. Each byte pair is (op, key).
func FuzzLFU_Ops(f *testing.F) {
	f.Add(uint8(2), []byte{1, 0, 1, 1, 0, 0, 0, 0, 0, 0, 1, 2})
	f.Add(uint8(1), []byte{1, 7, 1, 7, 1, 8, 2, 7})
	f.Add(uint8(4), []byte{})
	f.Add(uint8(3), []byte{1, 1, 1, 2, 1, 3, 3, 0, 1, 4, 0, 4, 1, 5})

	f.Fuzz(func(t *testing.T, capacity uint8, ops []byte) {
		if capacity == 0 {
			if _, err := New[byte, int](0); err == nil {
				t.Fatal("capacity 0 must be rejected")
			}
			return
		}
		// Cap the stream to keep each run short.
		const limit = 1 << 10
		if len(ops) > limit {
			ops = ops[:limit]
		}

		c, err := New[byte, int](int(capacity))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i+1 < len(ops); i += 2 {
			k := ops[i+1] % 32
			switch ops[i] % 4 {
			case 0:
				before, had := c.Frequency(k)
				if _, ok := c.Get(k); ok != had {
					t.Fatalf("Get(%d) presence mismatch", k)
				}
				if after, _ := c.Frequency(k); had && after != before+1 {
					t.Fatalf("Get(%d) freq %d -> %d", k, before, after)
				}
			case 1:
				c.Set(k, i)
				if v, ok := c.Peek(k); !ok || v != i {
					t.Fatalf("Set(%d)/Peek: want %d, got %d ok=%v", k, i, v, ok)
				}
			case 2:
				had := c.Contains(k)
				if c.Remove(k) != had {
					t.Fatalf("Remove(%d) presence mismatch", k)
				}
			case 3:
				c.RemoveLeastFrequent()
			}
			checkInvariants(t, c)
		}
	})
}
