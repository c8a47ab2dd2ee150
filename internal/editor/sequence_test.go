package editor

import (
	"math/rand"
	"slices"
	"strings"
	"testing"
)

type testItem string

func (t testItem) Key() string { return string(t) }

func keys[T Identified](items []T) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Key()
	}
	return strings.Join(parts, ",")
}

func TestSequenceReorder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     string
		ok       bool
	}{
		{"head to middle", 0, 2, "b,c,a,d", true},
		{"tail to head", 3, 0, "d,a,b,c", true},
		{"middle to tail", 1, 3, "a,c,d,b", true},
		{"adjacent forward", 1, 2, "a,c,b,d", true},
		{"adjacent backward", 2, 1, "a,c,b,d", true},
		{"same index", 1, 1, "a,b,c,d", false},
		{"from out of range", 4, 0, "a,b,c,d", false},
		{"to out of range", 0, 4, "a,b,c,d", false},
		{"negative", -1, 0, "a,b,c,d", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seq := NewSequence[testItem]("a", "b", "c", "d")
			ok := seq.Reorder(tc.from, tc.to)
			if ok != tc.ok {
				t.Fatalf("Reorder(%d,%d) ok = %v, want %v", tc.from, tc.to, ok, tc.ok)
			}
			if got := keys(seq.Items()); got != tc.want {
				t.Fatalf("Reorder(%d,%d) = %s, want %s", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestSequenceReorderPreservesElements(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seq := NewSequence[testItem]("a", "b", "c", "d", "e", "f")
	want := keys(seq.Items())

	for i := 0; i < 500; i++ {
		n := seq.Len()
		seq.Reorder(rng.Intn(n), rng.Intn(n))
	}

	got := seq.Items()
	if len(got) != 6 {
		t.Fatalf("expected 6 items after reorders, got %d", len(got))
	}
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	if keys(sorted) != want {
		t.Fatalf("elements changed: got %s", keys(sorted))
	}
}

func TestSequenceRemoveMissingIsNoop(t *testing.T) {
	seq := NewSequence[testItem]("a", "b")
	if seq.RemoveByID("missing-id") {
		t.Fatal("expected RemoveByID to report false for missing id")
	}
	if got := keys(seq.Items()); got != "a,b" {
		t.Fatalf("sequence changed: %s", got)
	}
}

func TestSequenceMoveIDResolvesIndexAtCallTime(t *testing.T) {
	seq := NewSequence[testItem]("a", "b", "c")
	seq.RemoveByID("a")
	if !seq.MoveID("c", 0) {
		t.Fatal("MoveID returned false")
	}
	if got := keys(seq.Items()); got != "c,b" {
		t.Fatalf("got %s, want c,b", got)
	}
	if seq.MoveID("a", 0) {
		t.Fatal("MoveID on removed id should be a no-op")
	}
}

func TestSequenceItemsIsCopy(t *testing.T) {
	seq := NewSequence[testItem]("a", "b")
	items := seq.Items()
	items[0] = "z"
	if got, _ := seq.At(0); got != "a" {
		t.Fatalf("Items leaked internal storage: %s", got)
	}
}
