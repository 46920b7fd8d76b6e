package clock

import (
	"sync"
	"testing"
	"time"
)

func TestManualClock_Advance(t *testing.T) {
	start := time.Unix(1700000000, 0)
	clk := NewManualClock(start)

	if !clk.Now().Equal(start) {
		t.Fatalf("Expected %v, got %v", start, clk.Now())
	}

	clk.Advance(1500 * time.Millisecond)
	want := start.Add(1500 * time.Millisecond)
	if !clk.Now().Equal(want) {
		t.Errorf("Expected %v, got %v", want, clk.Now())
	}

	// Negative advance is ignored
	clk.Advance(-time.Hour)
	if !clk.Now().Equal(want) {
		t.Errorf("Negative advance moved clock to %v", clk.Now())
	}
}

func TestManualClock_Set(t *testing.T) {
	clk := NewManualClock(time.Unix(100, 0))
	clk.Set(time.Unix(50, 0))

	if got := clk.Now().Unix(); got != 50 {
		t.Errorf("Expected 50, got %d", got)
	}
}

func TestManualClock_Concurrent(t *testing.T) {
	clk := NewManualClock(time.Unix(0, 0))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clk.Advance(time.Second)
			_ = clk.Now()
		}()
	}
	wg.Wait()

	if got := clk.Now().Unix(); got != 100 {
		t.Errorf("Expected 100 seconds after 100 advances, got %d", got)
	}
}

func TestSystemClock_Now(t *testing.T) {
	before := time.Now()
	got := NewSystemClock().Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("SystemClock.Now() = %v, want between %v and %v", got, before, after)
	}
}
