package fixed

import (
	"testing"

	"devicecore-go/errcode"
	"devicecore-go/trap"
)

func TestVectorPushUntilFull(t *testing.T) {
	var storage [3]int
	v := NewVector(storage[:])

	for i := 1; i <= 3; i++ {
		if err := v.Push(i); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}
	if !v.Full() || v.Len() != 3 || v.Cap() != 3 {
		t.Fatalf("len/cap = %d/%d", v.Len(), v.Cap())
	}
	if err := v.Push(4); err != errcode.ErrOutOfRange {
		t.Fatalf("Push on full = %v, want OUT_OF_RANGE", err)
	}
	if got := v.Pop(); got != 3 {
		t.Fatalf("Pop = %d, want 3", got)
	}
	if got := v.Slice(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("Slice = %v", got)
	}
	if &v.Slice()[0] != &storage[0] {
		t.Fatalf("vector does not alias caller storage")
	}
}

func TestVectorAppendAndClear(t *testing.T) {
	v := NewVector(make([]byte, 4))
	if n := v.Append([]byte("hello")); n != 4 {
		t.Fatalf("Append copied %d, want 4", n)
	}
	if string(v.Slice()) != "hell" {
		t.Fatalf("Slice = %q", v.Slice())
	}
	v.Clear()
	if !v.Empty() {
		t.Fatalf("Clear left %d elements", v.Len())
	}
}

func TestVectorOutOfRangeTraps(t *testing.T) {
	prev := trap.SetHandler(func(loc trap.Location, err errcode.Code) {
		panic(&trap.Failure{Location: loc, Code: err})
	})
	defer trap.SetHandler(prev)

	v := NewVector(make([]int, 2))
	if f := trap.Catch(func() { v.Pop() }); f == nil || f.Code != errcode.ErrOutOfRange {
		t.Fatalf("Pop on empty did not trap")
	}
	if f := trap.Catch(func() { v.At(0) }); f == nil {
		t.Fatalf("At past length did not trap")
	}
}
