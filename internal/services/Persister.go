package services

import (
	"context"
	json "github.com/goccy/go-json"
	"kickoff/internal/providers"
	"kickoff/internal/storage/interfaces"
	"sync"
)

type PersisterInterface interface {
	Save(key string, value any)
	Remove(key string)
	Load(ctx context.Context, key string) ([]byte, bool)
	Flush(ctx context.Context) error
	Stop()
}

type pendingWrite struct {
	data   []byte
	remove bool
}

// Persister writes store snapshots in the background. Only the latest value
// per key is kept; a single worker drains the queue through the storage.
type Persister struct {
	storage interfaces.StorageInterface
	logger  providers.Logger

	mu      sync.Mutex
	pending map[string]pendingWrite
	stopped bool

	wake     chan struct{}
	flushReq chan chan struct{}
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewPersister(storage interfaces.StorageInterface, logger providers.Logger) *Persister {
	p := &Persister{
		storage:  storage,
		logger:   logger,
		pending:  make(map[string]pendingWrite),
		wake:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Save encodes value now and schedules the write.
func (p *Persister) Save(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		p.logger.Errorf(providers.TypeStore, "Unable to encode %s: %s", key, err)
		return
	}
	p.enqueue(key, pendingWrite{data: data})
}

func (p *Persister) Remove(key string) {
	p.enqueue(key, pendingWrite{remove: true})
}

func (p *Persister) enqueue(key string, w pendingWrite) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.logger.Debugf(providers.TypeStore, "Persister stopped, writing %s inline", key)
		p.write(key, w)
		return
	}
	p.pending[key] = w
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Load reads key, preferring a write that has not landed yet.
func (p *Persister) Load(ctx context.Context, key string) ([]byte, bool) {
	p.mu.Lock()
	w, ok := p.pending[key]
	p.mu.Unlock()
	if ok {
		if w.remove {
			return nil, false
		}
		return w.data, true
	}

	raw, ok := p.storage.GetItem(ctx, key)
	if !ok {
		return nil, false
	}
	return []byte(raw), true
}

// Flush blocks until every write queued before the call has been handed to storage.
func (p *Persister) Flush(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	default:
	}

	ack := make(chan struct{})
	select {
	case p.flushReq <- ack:
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains pending writes and ends the worker. Later writes go straight to storage.
func (p *Persister) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		<-p.done
	})
}

func (p *Persister) run() {
	for {
		select {
		case <-p.wake:
			p.drain()
		case ack := <-p.flushReq:
			p.drain()
			close(ack)
		case <-p.quit:
			for p.drainBatch(true) {
			}
			close(p.done)
			return
		}
	}
}

func (p *Persister) drain() {
	for p.drainBatch(false) {
	}
}

// drainBatch writes everything queued so far and reports whether there was
// anything to write. With final set, an empty queue marks the persister stopped.
func (p *Persister) drainBatch(final bool) bool {
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.stopped = p.stopped || final
		p.mu.Unlock()
		return false
	}
	batch := p.pending
	p.pending = make(map[string]pendingWrite)
	p.mu.Unlock()

	for key, w := range batch {
		p.write(key, w)
	}
	return true
}

func (p *Persister) write(key string, w pendingWrite) {
	ctx := context.Background()
	if w.remove {
		p.storage.RemoveItem(ctx, key)
		return
	}
	p.storage.SetItem(ctx, key, string(w.data))
}
