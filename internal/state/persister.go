package state

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

var tracer = otel.Tracer("state-persister")

const writeTimeout = 5 * time.Second

type write struct {
	seq    uint64
	value  []byte
	remove bool
}

// Persister issues fire-and-forget writes of one key from a single goroutine.
// Writes apply in mutation order; when writes queue up only the newest
// snapshot is written, since every snapshot replaces the whole blob.
// Failures are logged and counted, never retried.
type Persister struct {
	kv   KV
	name string
	key  string

	mu       sync.Mutex
	pending  *write
	seq      uint64
	written  uint64
	progress chan struct{}

	wake      chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewPersister starts the writer goroutine for key. name labels logs and metrics.
func NewPersister(kv KV, name, key string) *Persister {
	p := &Persister{
		kv:       kv,
		name:     name,
		key:      key,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Save queues value as the new blob
func (p *Persister) Save(value []byte) {
	p.enqueue(write{value: value})
}

// Remove queues deletion of the blob
func (p *Persister) Remove() {
	p.enqueue(write{remove: true})
}

func (p *Persister) enqueue(w write) {
	p.mu.Lock()
	p.seq++
	w.seq = p.seq
	p.pending = &w
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every write queued before the call has been attempted
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.seq
	p.mu.Unlock()

	for {
		p.mu.Lock()
		done := p.written >= target
		ch := p.progress
		p.mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close drains queued writes and stops the writer
func (p *Persister) Close() {
	p.closeOnce.Do(func() {
		close(p.stop)
		<-p.stopped
	})
}

func (p *Persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *Persister) drain() {
	for {
		p.mu.Lock()
		w := p.pending
		p.pending = nil
		p.mu.Unlock()
		if w == nil {
			return
		}

		p.apply(*w)

		p.mu.Lock()
		p.written = w.seq
		close(p.progress)
		p.progress = make(chan struct{})
		p.mu.Unlock()
	}
}

func (p *Persister) apply(w write) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	op := "set"
	if w.remove {
		op = "delete"
	}
	ctx, span := tracer.Start(ctx, "state.persist",
		trace.WithAttributes(
			attribute.String("state.store", p.name),
			attribute.String("state.key", p.key),
			attribute.String("state.op", op),
			attribute.Int("state.bytes", len(w.value)),
		),
	)
	defer span.End()

	var err error
	if w.remove {
		err = p.kv.Delete(ctx, p.key)
	} else {
		err = p.kv.Set(ctx, p.key, w.value)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.PersistenceWrites.WithLabelValues(p.name, "failure").Inc()
		logger.Error(ctx).
			Err(err).
			Str("store", p.name).
			Str("key", p.key).
			Str("op", op).
			Msg("Failed to persist state")
		return
	}

	metrics.PersistenceWrites.WithLabelValues(p.name, "success").Inc()
}
