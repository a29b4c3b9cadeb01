package crawler

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticElement is an inert element with canned descendant counts.
type staticElement struct {
	childCounts map[string]int
}

func (e *staticElement) Elements(_ context.Context, selector string) ([]Element, error) {
	out := make([]Element, e.childCounts[selector])
	for i := range out {
		out[i] = &staticElement{}
	}
	return out, nil
}

func (e *staticElement) Attribute(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

func (e *staticElement) Eval(_ context.Context, _ string) error { return nil }

// pageState is one sampled rendering state of a scripted page.
type pageState struct {
	presence  int
	unknown   int
	spinners  int
	scrollers []int // rendered child count per scroll container
	markup    string
}

// scriptedPage is a Handle that advances through a fixed sequence of
// rendering states, one per poll, holding the final state forever.
type scriptedPage struct {
	mu     sync.Mutex
	states []pageState
	polls  int

	navigated []string
	scripts   []string
	closed    bool
}

func (p *scriptedPage) current() pageState {
	i := p.polls - 1
	if i < 0 {
		i = 0
	}
	if i >= len(p.states) {
		i = len(p.states) - 1
	}
	return p.states[i]
}

func (p *scriptedPage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *scriptedPage) RunScript(_ context.Context, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts = append(p.scripts, code)
	return nil
}

func (p *scriptedPage) Elements(_ context.Context, selector string) ([]Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// The presence query opens each poll; advance the script there.
	if selector == selPresence {
		p.polls++
	}
	s := p.current()

	n := 0
	switch selector {
	case selPresence:
		n = s.presence
	case selUnknown:
		n = s.unknown
	case selSpinner:
		n = s.spinners
	case selScroller:
		out := make([]Element, len(s.scrollers))
		for i, children := range s.scrollers {
			out[i] = &staticElement{childCounts: map[string]int{"div": children}}
		}
		return out, nil
	}
	out := make([]Element, n)
	for i := range out {
		out[i] = &staticElement{}
	}
	return out, nil
}

func (p *scriptedPage) HTML(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current().markup, nil
}

func (p *scriptedPage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// TestDetectorWait exercises the generic polling loop.
func TestDetectorWait(t *testing.T) {
	t.Parallel()

	t.Run("returns once the condition holds", func(t *testing.T) {
		t.Parallel()

		d := NewDetector(time.Millisecond, discardLogger())
		calls := 0
		timedOut, err := d.Wait(context.Background(), time.Second, func(context.Context) (bool, error) {
			calls++
			return calls >= 3, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if timedOut {
			t.Error("expected no timeout")
		}
		if calls != 3 {
			t.Errorf("expected 3 condition evaluations, got %d", calls)
		}
	})

	t.Run("deadline elapsing is reported, not an error", func(t *testing.T) {
		t.Parallel()

		d := NewDetector(2*time.Millisecond, discardLogger())
		timedOut, err := d.Wait(context.Background(), 10*time.Millisecond, func(context.Context) (bool, error) {
			return false, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !timedOut {
			t.Error("expected timeout")
		}
	})

	t.Run("context cancellation aborts the wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		d := NewDetector(2*time.Millisecond, discardLogger())
		_, err := d.Wait(ctx, time.Second, func(context.Context) (bool, error) {
			return false, nil
		})
		if err == nil {
			t.Error("expected context error")
		}
	})

	t.Run("condition error propagates", func(t *testing.T) {
		t.Parallel()

		d := NewDetector(time.Millisecond, discardLogger())
		_, err := d.Wait(context.Background(), time.Second, func(context.Context) (bool, error) {
			return false, context.DeadlineExceeded
		})
		if err == nil {
			t.Error("expected condition error to propagate")
		}
	})
}

// TestWaitUntilReady exercises the page stability predicate against
// scripted rendering sequences.
func TestWaitUntilReady(t *testing.T) {
	t.Parallel()

	t.Run("ready once all conditions hold on a single poll", func(t *testing.T) {
		t.Parallel()

		page := &scriptedPage{states: []pageState{
			{presence: 0, markup: "a"},
			{presence: 1, spinners: 1, scrollers: []int{0}, markup: "b"},
			{presence: 1, scrollers: []int{2}, markup: "c"},
			{presence: 1, scrollers: []int{2}, markup: "c"},
		}}

		d := NewDetector(time.Millisecond, discardLogger())
		timedOut, err := d.WaitUntilReady(context.Background(), page, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if timedOut {
			t.Error("expected page to become ready")
		}
		if page.polls < 4 {
			t.Errorf("expected at least 4 polls, got %d", page.polls)
		}
	})

	t.Run("markup must repeat before the page counts as ready", func(t *testing.T) {
		t.Parallel()

		// Clean in every respect on every poll; only the markup still
		// changes. The final state holds, so "b" repeats on poll 3.
		page := &scriptedPage{states: []pageState{
			{presence: 1, scrollers: []int{1}, markup: "a"},
			{presence: 1, scrollers: []int{1}, markup: "b"},
		}}
		d := NewDetector(time.Millisecond, discardLogger())
		timedOut, err := d.WaitUntilReady(context.Background(), page, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if timedOut {
			t.Error("expected eventual readiness once markup repeats")
		}
		if page.polls < 3 {
			t.Errorf("expected at least 3 polls, got %d", page.polls)
		}
	})

	t.Run("empty scroll container blocks readiness until the deadline", func(t *testing.T) {
		t.Parallel()

		page := &scriptedPage{states: []pageState{
			{presence: 1, scrollers: []int{1, 0}, markup: "a"},
		}}

		d := NewDetector(2*time.Millisecond, discardLogger())
		timedOut, err := d.WaitUntilReady(context.Background(), page, 10*time.Millisecond)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !timedOut {
			t.Error("expected timeout while a scroll container is empty")
		}
	})
}

// TestApplyTheme verifies the theme script issued to the page.
func TestApplyTheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		darkMode bool
		want     string
	}{
		{name: "light mode", darkMode: false, want: "{ mode: 'light' }"},
		{name: "dark mode", darkMode: true, want: "{ mode: 'dark' }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := &scriptedPage{states: []pageState{{}}}
			if err := ApplyTheme(context.Background(), page, tt.darkMode); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(page.scripts) != 1 {
				t.Fatalf("expected one script, got %d", len(page.scripts))
			}
			script := page.scripts[0]
			if !strings.Contains(script, tt.want) || !strings.Contains(script, "ThemeStore.setState") {
				t.Errorf("unexpected theme script %q", script)
			}
		})
	}
}
