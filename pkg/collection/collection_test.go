package collection_test

import (
	"reflect"
	"testing"

	"github.com/nikhilverma/shopline/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]int{1, 2, 3}, func(n int) int { return n * 2 })
	if !reflect.DeepEqual(got, []int{2, 4, 6}) {
		t.Errorf("got %v", got)
	}
}

func TestFilter(t *testing.T) {
	got := collection.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("got %v", got)
	}
}

func TestFirst(t *testing.T) {
	v, ok := collection.First([]string{"a", "bb", "ccc"}, func(s string) bool { return len(s) == 2 })
	if !ok || v != "bb" {
		t.Errorf("got %q, %v", v, ok)
	}

	_, ok = collection.First([]string{"a"}, func(s string) bool { return len(s) == 9 })
	if ok {
		t.Error("expected no match")
	}
}

func TestGroupBy(t *testing.T) {
	got := collection.GroupBy([]int{1, 2, 3, 4, 5}, func(n int) int { return n % 2 })
	if len(got[0]) != 2 || len(got[1]) != 3 {
		t.Errorf("got %v", got)
	}
}

func TestKeyBy(t *testing.T) {
	type row struct{ ID int }
	got := collection.KeyBy([]row{{1}, {2}}, func(r row) int { return r.ID })
	if got[2].ID != 2 {
		t.Errorf("got %v", got)
	}
}

func TestUnique(t *testing.T) {
	got := collection.Unique([]int{1, 2, 2, 3, 1})
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}

func TestChunk(t *testing.T) {
	got := collection.Chunk([]int{1, 2, 3, 4, 5}, 2)
	want := [][]int{{1, 2}, {3, 4}, {5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v", got)
	}
}

func TestReduce(t *testing.T) {
	got := collection.Reduce([]int{1, 2, 3}, 10, func(carry, n int) int { return carry + n })
	if got != 16 {
		t.Errorf("got %d", got)
	}
}

func TestSum(t *testing.T) {
	type line struct {
		price int64
		qty   int
	}
	lines := []line{{1000, 2}, {499, 1}}
	got := collection.Sum(lines, func(l line) int64 { return l.price * int64(l.qty) })
	if got != 2499 {
		t.Errorf("got %d", got)
	}
}

func TestSortBy(t *testing.T) {
	got := collection.SortBy([]int{3, 1, 2}, func(a, b int) bool { return a < b })
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v", got)
	}
}

func TestPluck(t *testing.T) {
	type row struct{ Name string }
	got := collection.Pluck([]row{{"a"}, {"b"}}, func(r row) string { return r.Name })
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}
}
