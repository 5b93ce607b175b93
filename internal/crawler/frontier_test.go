package crawler

import "testing"

func TestFrontierEnqueueDeduplicates(t *testing.T) {
	f := NewFrontier()

	if !f.Enqueue("player-1") {
		t.Error("first Enqueue should report true")
	}
	if f.Enqueue("player-1") {
		t.Error("duplicate Enqueue should report false")
	}
	if f.Enqueue("") {
		t.Error("empty PUUID should not be enqueued")
	}
	if f.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.Pending())
	}
}

func TestFrontierNextIsFIFO(t *testing.T) {
	f := NewFrontier()
	f.Enqueue("a")
	f.Enqueue("b")
	f.Enqueue("c")

	for _, want := range []string{"a", "b", "c"} {
		got, ok := f.Next()
		if !ok || got != want {
			t.Fatalf("Next() = %q, %v; want %q, true", got, ok, want)
		}
	}
	if _, ok := f.Next(); ok {
		t.Error("Next() on empty frontier should report false")
	}
}

func TestFrontierPoppedPlayerNeverReturns(t *testing.T) {
	f := NewFrontier()
	f.Enqueue("a")
	f.Next()

	if f.Enqueue("a") {
		t.Error("visited player should not re-enter the queue")
	}
	if _, ok := f.Next(); ok {
		t.Error("frontier should be empty after the only player was visited")
	}
}

func TestFrontierMarkCollected(t *testing.T) {
	f := NewFrontier()

	if !f.MarkCollected("NA1_1") {
		t.Error("first MarkCollected should report true")
	}
	if f.MarkCollected("NA1_1") {
		t.Error("duplicate MarkCollected should report false")
	}
	f.MarkCollected("NA1_2")

	if f.Collected() != 2 {
		t.Errorf("Collected() = %d, want 2", f.Collected())
	}
	if !f.HasCollected("NA1_1") {
		t.Error("HasCollected should report true for a counted match")
	}
	if f.HasCollected("NA1_99") {
		t.Error("HasCollected should report false for an unseen match")
	}
}
