package session

import (
	"context"
	"sync"

	"ezsubs/internal/collect"
	"ezsubs/internal/errors"
	"ezsubs/internal/fileset"
	"ezsubs/internal/log"
	"ezsubs/pkg/types"
)

// ErrClosed is reported for drops that arrive after Close.
var ErrClosed = errors.New("session closed")

// Side selects one of the two panels.
type Side int

const (
	Media Side = iota
	Subtitles
)

func (s Side) String() string {
	if s == Media {
		return "media"
	}
	return "subtitles"
}

// DropResult describes what a drop did to its panel.
type DropResult struct {
	Side      Side
	Collected int // files found by the collector
	Added     int // files that were new to the set
	Warnings  []*errors.CollectionWarning
	Discarded bool // the panel was cleared (or closed) before the batch landed
	Err       error
}

type batch struct {
	gen  uint64
	res  collect.Result
	err  error
	side Side
	out  chan<- DropResult
}

// Panel is one file list together with the writer goroutine that applies
// drop batches to it. Collection happens concurrently; batches are applied
// one at a time, in the order they finish collecting.
type Panel struct {
	side      Side
	set       *fileset.Set
	collector *collect.Collector
	recursive bool

	batches chan batch
	quit    chan struct{}
	done    chan struct{}

	mu       sync.Mutex
	inflight map[uint64]context.CancelFunc
	nextID   uint64
	closed   bool
}

func newPanel(side Side, set *fileset.Set, collector *collect.Collector, recursive bool) *Panel {
	p := &Panel{
		side:      side,
		set:       set,
		collector: collector,
		recursive: recursive,
		batches:   make(chan batch),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		inflight:  make(map[uint64]context.CancelFunc),
	}
	go p.run()
	return p
}

// Side returns which list this panel holds.
func (p *Panel) Side() Side {
	return p.side
}

// Set returns the underlying file set for direct edits.
func (p *Panel) Set() *fileset.Set {
	return p.set
}

// Items returns a snapshot of the panel's files.
func (p *Panel) Items() []types.FileRef {
	return p.set.Items()
}

// Len returns the number of files in the panel.
func (p *Panel) Len() int {
	return p.set.Len()
}

// SetRecursive controls whether dropped directories are walked.
func (p *Panel) SetRecursive(recursive bool) {
	p.mu.Lock()
	p.recursive = recursive
	p.mu.Unlock()
}

// Drop expands paths and appends the result as one batch. The returned
// channel receives exactly one DropResult and is then closed.
func (p *Panel) Drop(ctx context.Context, paths []string) <-chan DropResult {
	out := make(chan DropResult, 1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		out <- DropResult{Side: p.side, Discarded: true, Err: ErrClosed}
		close(out)
		return out
	}
	gen := p.set.Generation()
	recursive := p.recursive
	ctx, cancel := context.WithCancel(ctx)
	id := p.nextID
	p.nextID++
	p.inflight[id] = cancel
	p.mu.Unlock()

	go func() {
		defer p.untrack(id)
		res, err := p.collector.Collect(ctx, paths, p.set.Allowed(), recursive)
		b := batch{gen: gen, res: res, err: err, side: p.side, out: out}
		select {
		case p.batches <- b:
		case <-p.quit:
			out <- DropResult{Side: p.side, Collected: len(res.Files), Warnings: res.Warnings, Discarded: true, Err: ErrClosed}
			close(out)
		}
	}()
	return out
}

// Clear empties the panel and cancels drops that are still collecting.
// Their batches are discarded even if collection already finished.
func (p *Panel) Clear() {
	p.mu.Lock()
	for id, cancel := range p.inflight {
		cancel()
		delete(p.inflight, id)
	}
	p.set.Clear()
	p.mu.Unlock()
	log.LogWithFields(log.F("panel", p.side.String())).Debug("Cleared")
}

func (p *Panel) untrack(id uint64) {
	p.mu.Lock()
	if cancel, ok := p.inflight[id]; ok {
		cancel()
		delete(p.inflight, id)
	}
	p.mu.Unlock()
}

func (p *Panel) run() {
	defer close(p.done)
	for {
		select {
		case b := <-p.batches:
			b.out <- p.apply(b)
			close(b.out)
		case <-p.quit:
			return
		}
	}
}

func (p *Panel) apply(b batch) DropResult {
	result := DropResult{
		Side:      b.side,
		Collected: len(b.res.Files),
		Warnings:  b.res.Warnings,
	}
	if b.err != nil {
		// Cancelled mid-collection: the partial batch is not applied.
		result.Discarded = true
		result.Err = b.err
		return result
	}

	added, ok := p.set.AppendIfGeneration(b.gen, b.res.Files...)
	result.Added = added
	result.Discarded = !ok

	log.LogWithFields(
		log.F("panel", b.side.String()),
		log.F("collected", result.Collected),
		log.F("added", added),
		log.F("warnings", len(result.Warnings)),
		log.F("discarded", result.Discarded),
	).Info("Drop applied")
	return result
}

func (p *Panel) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for id, cancel := range p.inflight {
		cancel()
		delete(p.inflight, id)
	}
	p.mu.Unlock()
	close(p.quit)
	<-p.done
}
