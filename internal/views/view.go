package views

import (
	"context"
	"errors"
	"log"
	"sync"

	"ricepro-web/internal/api"
	"ricepro-web/internal/metrics"
)

// view holds the committed result of one page. Loads go through the
// sequencer so a slow earlier load cannot overwrite a later one.
type view[T any] struct {
	name string
	seq  Sequencer

	mu     sync.RWMutex
	result Result[T]
	flash  Flash
}

func (v *view[T]) init(name string) {
	v.name = name
	v.result = LoadingResult[T]()
}

// load runs fetch and commits its outcome if no newer load started since.
// A superseded load returns the committed result of the newer load.
func (v *view[T]) load(ctx context.Context, fetch func(ctx context.Context) (T, error)) (Result[T], error) {
	ticket, fctx := v.seq.Next(ctx)
	defer ticket.Done()

	ticket.Commit(func() {
		v.mu.Lock()
		v.result = LoadingResult[T]()
		v.mu.Unlock()
	})

	data, err := fetch(fctx)

	var next Result[T]
	if err != nil {
		if !ticket.Current() {
			return v.discard()
		}
		log.Printf("[%s] Load failed: %v", v.name, err)
		next = FailedResult[T](err, api.Message(err, "Failed to load data. Please try again."))
	} else {
		next = ReadyResult(data)
	}

	committed := ticket.Commit(func() {
		v.mu.Lock()
		v.result = next
		v.mu.Unlock()
	})
	if !committed {
		return v.discard()
	}
	return next, nil
}

func (v *view[T]) discard() (Result[T], error) {
	metrics.StaleResultsTotal.WithLabelValues(v.name).Inc()
	log.Printf("[%s] Discarded stale load result", v.name)
	return v.Snapshot(), ErrSuperseded
}

// Snapshot returns the last committed result
func (v *view[T]) Snapshot() Result[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.result
}

func (v *view[T]) SetFlash(f Flash) {
	v.mu.Lock()
	v.flash = f
	v.mu.Unlock()
}

// TakeFlash returns the pending flash message and clears it.
func (v *view[T]) TakeFlash() Flash {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.flash
	v.flash = Flash{}
	return f
}

// act runs a mutation and records the flash. Reloading is left to the
// caller so it can use the page's current filters.
func (v *view[T]) act(do func() (string, error), fallback string) error {
	msg, err := do()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("[%s] Action failed: %v", v.name, err)
		}
		v.SetFlash(flashFor(err, fallback))
		return err
	}
	if msg != "" {
		v.SetFlash(Flash{Kind: FlashSuccess, Message: msg})
	}
	return nil
}
