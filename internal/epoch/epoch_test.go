package epoch

import (
	"sync"
	"testing"
)

func TestReclaimFreesAfterGuardReleased(t *testing.T) {
	reg := NewRegistry()
	g := reg.Acquire()

	freed := false
	reg.Retire(func() { freed = true })

	reg.Reclaim()
	if freed {
		t.Fatalf("expected retired node to stay alive while a guard is held")
	}

	g.Release()
	reg.Reclaim()
	if !freed {
		t.Fatalf("expected retired node to be freed once the guard released")
	}
}

func TestReclaimAllIgnoresActiveGuards(t *testing.T) {
	reg := NewRegistry()
	g := reg.Acquire()
	defer g.Release()

	freed := false
	reg.Retire(func() { freed = true })

	if n := reg.ReclaimAll(); n != 1 {
		t.Fatalf("expected ReclaimAll to report 1 freed item, got %d", n)
	}
	if !freed {
		t.Fatalf("expected ReclaimAll to free regardless of active guards")
	}
	if reg.Pending() != 0 {
		t.Fatalf("expected no pending items after ReclaimAll")
	}
}

func TestReclaimDrainsLongRunningSequenceWithNoGuards(t *testing.T) {
	// spec.md §8: "After a long-running sequence of writer mutations
	// with no reader guards held, reclaim_retired() drains the
	// retired list completely."
	reg := NewRegistry()
	for i := 0; i < 1000; i++ {
		reg.Retire(func() {})
	}
	reg.Reclaim()
	if reg.Pending() != 0 {
		t.Fatalf("expected retired list fully drained, got %d pending", reg.Pending())
	}
}

func TestConcurrentGuardsDoNotRace(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				g := reg.Acquire()
				reg.Retire(func() {})
				g.Release()
			}
		}()
	}
	wg.Wait()
	reg.ReclaimAll()
	if reg.Pending() != 0 {
		t.Fatalf("expected drained retired list, got %d pending", reg.Pending())
	}
}
