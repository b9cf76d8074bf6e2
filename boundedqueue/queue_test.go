package boundedqueue

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_panicsWithInvalidCapacity(t *testing.T) {
	for _, capacity := range [...]int{0, -1} {
		func() {
			defer func() {
				if r := recover(); r != `boundedqueue: capacity must be positive` {
					t.Errorf(`capacity %d: unexpected recover: %v`, capacity, r)
				}
			}()
			New[int](capacity)
		}()
	}
}

func TestQueue_Push_overflow(t *testing.T) {
	q := New[string](2)
	if err := q.Push(`a`); err != nil {
		t.Fatal(err)
	}
	if err := q.Push(`b`); err != nil {
		t.Fatal(err)
	}
	if !q.IsFull() || q.IsEmpty() {
		t.Fatal(q.IsFull(), q.IsEmpty())
	}
	if err := q.Push(`c`); !errors.Is(err, ErrOverflow) {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{`a`, `b`}, q.Slice()); diff != `` {
		t.Errorf("unexpected contents (-want +got):\n%s", diff)
	}
}

func TestQueue_PopFront_underflow(t *testing.T) {
	q := New[int](1)
	if v, err := q.PopFront(); !errors.Is(err, ErrUnderflow) || v != 0 {
		t.Fatal(v, err)
	}
	if v, err := q.Front(); !errors.Is(err, ErrUnderflow) || v != 0 {
		t.Fatal(v, err)
	}
	if err := q.Push(7); err != nil {
		t.Fatal(err)
	}
	if v, err := q.Front(); err != nil || v != 7 || q.Len() != 1 {
		t.Fatal(v, err, q.Len())
	}
	if v, err := q.PopFront(); err != nil || v != 7 {
		t.Fatal(v, err)
	}
	if _, err := q.PopFront(); !errors.Is(err, ErrUnderflow) {
		t.Fatal(err)
	}
	if q.Slice() != nil {
		t.Error(q.Slice())
	}
}

func TestQueue_fifo(t *testing.T) {
	for _, capacity := range [...]int{1, 3, 8, 13} {
		q := New[int](capacity)
		want := make([]int, capacity)
		for i := range want {
			want[i] = i * 10
			if err := q.Push(want[i]); err != nil {
				t.Fatal(err)
			}
		}
		var got []int
		for !q.IsEmpty() {
			v, err := q.PopFront()
			if err != nil {
				t.Fatal(err)
			}
			got = append(got, v)
		}
		if diff := cmp.Diff(want, got); diff != `` {
			t.Errorf("capacity %d: pop order (-want +got):\n%s", capacity, diff)
		}
	}
}

// interleaves push and pop, checking the length bound and order against a
// plain slice model, across wrap-around
func TestQueue_randomizedAgainstModel(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, capacity := range [...]int{1, 2, 5, 8} {
		q := New[int](capacity)
		var model []int
		next := 0
		for step := 0; step < 2000; step++ {
			if r.Intn(2) == 0 {
				err := q.Push(next)
				if len(model) == capacity {
					if !errors.Is(err, ErrOverflow) {
						t.Fatalf(`capacity %d step %d: expected overflow, got %v`, capacity, step, err)
					}
				} else {
					if err != nil {
						t.Fatalf(`capacity %d step %d: %v`, capacity, step, err)
					}
					model = append(model, next)
				}
				next++
			} else {
				v, err := q.PopFront()
				if len(model) == 0 {
					if !errors.Is(err, ErrUnderflow) {
						t.Fatalf(`capacity %d step %d: expected underflow, got %v`, capacity, step, err)
					}
				} else {
					if err != nil || v != model[0] {
						t.Fatalf(`capacity %d step %d: got %d %v, want %d`, capacity, step, v, err, model[0])
					}
					model = model[1:]
				}
			}
			if q.Len() < 0 || q.Len() > q.Cap() || q.Len() != len(model) {
				t.Fatalf(`capacity %d step %d: len %d model %d`, capacity, step, q.Len(), len(model))
			}
			if q.IsFull() != (len(model) == capacity) || q.IsEmpty() != (len(model) == 0) {
				t.Fatalf(`capacity %d step %d: predicates disagree with model`, capacity, step)
			}
			if len(model) != 0 {
				if diff := cmp.Diff(model, q.Slice()); diff != `` {
					t.Fatalf("capacity %d step %d (-want +got):\n%s", capacity, step, diff)
				}
			}
		}
	}
}

func TestQueue_PopFront_clearsReference(t *testing.T) {
	q := New[*int](2)
	v := new(int)
	if err := q.Push(v); err != nil {
		t.Fatal(err)
	}
	if _, err := q.PopFront(); err != nil {
		t.Fatal(err)
	}
	for i, p := range q.s {
		if p != nil {
			t.Errorf(`slot %d retained a reference`, i)
		}
	}
}
