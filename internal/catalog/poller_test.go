package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PrincessAkira/RestockIQ/internal/domain"
)

type stubLister struct {
	mu       sync.Mutex
	batches  [][]domain.Product
	err      error
	calls    int
}

func (s *stubLister) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.batches) {
		idx = len(s.batches) - 1
	}
	return s.batches[idx], nil
}

func (s *stubLister) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestPoller_RefreshesAndStops(t *testing.T) {
	lister := &stubLister{batches: [][]domain.Product{
		{{ID: 1, Name: "Milk", PriceCents: 100, Stock: 4}},
		{{ID: 1, Name: "Milk", PriceCents: 100, Stock: 2}, {ID: 2, Name: "Bread", PriceCents: 250, Stock: 9}},
	}}
	p := NewPoller(lister, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for len(p.Products()) != 2 {
		select {
		case <-deadline:
			t.Fatalf("snapshot never reached second batch: %+v", p.Products())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("poller did not stop on cancel")
	}

	stopped := lister.callCount()
	time.Sleep(20 * time.Millisecond)
	if lister.callCount() != stopped {
		t.Fatalf("poller kept polling after cancel")
	}
}

func TestPoller_FailedRefreshKeepsSnapshot(t *testing.T) {
	lister := &stubLister{batches: [][]domain.Product{
		{{ID: 1, Name: "Milk", PriceCents: 100}},
	}}
	p := NewPoller(lister, time.Minute, nil)
	p.refresh(context.Background())
	if len(p.Products()) != 1 {
		t.Fatalf("expected 1 product after first refresh")
	}

	lister.err = errors.New("connection refused")
	p.refresh(context.Background())
	if len(p.Products()) != 1 {
		t.Fatalf("failed refresh dropped the snapshot")
	}
}

func TestPoller_Search(t *testing.T) {
	lister := &stubLister{batches: [][]domain.Product{{
		{ID: 1, Name: "Fresh Milk", Code: "MLK-01"},
		{ID: 2, Name: "Brown Bread", Code: "BRD-01"},
		{ID: 3, Name: "Milk Chocolate", Code: "CHO-07"},
	}}}
	p := NewPoller(lister, time.Minute, nil)
	p.refresh(context.Background())

	if got := p.Search("milk"); len(got) != 2 {
		t.Fatalf("search milk: %+v", got)
	}
	if got := p.Search("brd-01"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("search by code: %+v", got)
	}
	if got := p.Search(""); len(got) != 3 {
		t.Fatalf("empty query should return all, got %d", len(got))
	}
	if got := p.Search("nothing"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestPoller_GetAndProductsCopy(t *testing.T) {
	lister := &stubLister{batches: [][]domain.Product{{{ID: 5, Name: "Eggs", Stock: 12}}}}
	p := NewPoller(lister, time.Minute, nil)
	p.refresh(context.Background())

	prod, ok := p.Get(5)
	if !ok || prod.Name != "Eggs" {
		t.Fatalf("get: %+v %v", prod, ok)
	}
	if _, ok := p.Get(99); ok {
		t.Fatalf("unexpected hit for unknown id")
	}

	snap := p.Products()
	snap[0].Stock = 0
	if p.Products()[0].Stock != 12 {
		t.Fatalf("snapshot not copied")
	}
}
