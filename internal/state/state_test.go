package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingKV remembers every write in order and can be told to fail
type recordingKV struct {
	*Memory
	mu     sync.Mutex
	writes []string
	fail   bool
	block  chan struct{}
}

func newRecordingKV() *recordingKV {
	return &recordingKV{Memory: NewMemory()}
}

func (r *recordingKV) Set(ctx context.Context, key string, value []byte) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.writes = append(r.writes, string(value))
	fail := r.fail
	r.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return r.Memory.Set(ctx, key, value)
}

func (r *recordingKV) Writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.writes...)
}

func flush(t *testing.T, p *Persister) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func TestPersisterWritesLatestValue(t *testing.T) {
	kv := newRecordingKV()
	p := NewPersister(kv, "cart", KeyCart)
	defer p.Close()

	for _, v := range []string{`[1]`, `[1,2]`, `[1,2,3]`} {
		p.Save([]byte(v))
	}
	flush(t, p)

	got, err := kv.Get(context.Background(), KeyCart)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Fatalf("stored %s, want [1,2,3]", got)
	}
}

func TestPersisterKeepsMutationOrder(t *testing.T) {
	kv := newRecordingKV()
	kv.block = make(chan struct{})
	p := NewPersister(kv, "cart", KeyCart)
	defer p.Close()

	p.Save([]byte("a"))
	// Let the first write start, then queue more while it is blocked
	time.Sleep(20 * time.Millisecond)
	p.Save([]byte("b"))
	p.Save([]byte("c"))
	close(kv.block)
	flush(t, p)

	writes := kv.Writes()
	if len(writes) == 0 || writes[len(writes)-1] != "c" {
		t.Fatalf("writes = %v, want last write c", writes)
	}
	for i := 1; i < len(writes); i++ {
		if writes[i] < writes[i-1] {
			t.Fatalf("writes out of order: %v", writes)
		}
	}
}

func TestPersisterFailureDoesNotBlock(t *testing.T) {
	kv := newRecordingKV()
	kv.fail = true
	p := NewPersister(kv, "profile", KeyUserProfile)
	defer p.Close()

	p.Save([]byte(`{"name":"A"}`))
	flush(t, p)

	if _, err := kv.Get(context.Background(), KeyUserProfile); !errors.Is(err, ErrNoValue) {
		t.Fatalf("Get() error = %v, want ErrNoValue after failed write", err)
	}
	if len(kv.Writes()) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(kv.Writes()))
	}
}

func TestPersisterRemove(t *testing.T) {
	kv := NewMemory()
	kv.Set(context.Background(), KeyUserProfile, []byte(`{}`))
	p := NewPersister(kv, "profile", KeyUserProfile)
	defer p.Close()

	p.Remove()
	flush(t, p)

	if _, err := kv.Get(context.Background(), KeyUserProfile); !errors.Is(err, ErrNoValue) {
		t.Fatalf("Get() error = %v, want ErrNoValue", err)
	}
}

func TestLoadJSON(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	var dst []string
	found, err := LoadJSON(ctx, kv, KeyCart, &dst)
	if err != nil || found {
		t.Fatalf("LoadJSON() on empty store = %v, %v", found, err)
	}

	kv.Set(ctx, KeyCart, []byte(`["x","y"]`))
	found, err = LoadJSON(ctx, kv, KeyCart, &dst)
	if err != nil || !found {
		t.Fatalf("LoadJSON() = %v, %v", found, err)
	}
	if len(dst) != 2 || dst[0] != "x" {
		t.Fatalf("decoded %v", dst)
	}

	kv.Set(ctx, KeyCart, []byte(`{broken`))
	if _, err := LoadJSON(ctx, kv, KeyCart, &dst); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestObservable(t *testing.T) {
	var o Observable[int]
	var got []int
	unsubscribe := o.Subscribe(func(v int) { got = append(got, v) })

	o.Notify(1)
	unsubscribe()
	o.Notify(2)

	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got %v, want [1]", got)
	}
}
