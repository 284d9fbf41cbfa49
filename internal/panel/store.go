package panel

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Status tracks the most recent fetch-all only. The other intents never move
// it on success.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is the panel's view of the catalog. Products keeps the server
// response order. Err is set only while Status is failed.
type State struct {
	Products []Product
	Status   Status
	Err      string
}

// Gateway is the remote-operations surface the store dispatches against.
type Gateway interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, d Draft) (Product, error)
	UpdateProduct(ctx context.Context, id string, d Draft) (Product, error)
	DeleteProduct(ctx context.Context, id string) (string, error)
}

// Store owns the product list state. Every completed gateway call applies its
// effect atomically under the lock, so observers only ever see whole
// transitions. Last completion wins when calls overlap; there is no fencing.
type Store struct {
	gw  Gateway
	log *zap.Logger

	mu    sync.RWMutex
	state State
	subs  []chan State
}

func NewStore(gw Gateway, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		gw:  gw,
		log: log,
		state: State{
			Products: []Product{},
			Status:   StatusIdle,
		},
	}
}

// FetchAll replaces the product list wholesale from the backend. Failure
// keeps the previous list and records the error text.
func (s *Store) FetchAll(ctx context.Context) error {
	s.apply(func(st *State) {
		st.Status = StatusLoading
		st.Err = ""
	})

	products, err := s.gw.ListProducts(ctx)
	if err != nil {
		s.log.Warn("fetch products failed", zap.Error(err))
		s.apply(func(st *State) {
			st.Status = StatusFailed
			st.Err = err.Error()
		})
		return err
	}

	if products == nil {
		products = []Product{}
	}
	s.apply(func(st *State) {
		st.Status = StatusSucceeded
		st.Err = ""
		st.Products = products
	})
	return nil
}

// Create appends the server-confirmed record. A record is never fabricated
// locally before the backend has assigned its id. Callers wanting strong
// consistency may follow a successful create with FetchAll; the append has
// already happened either way. Failures propagate without touching status.
func (s *Store) Create(ctx context.Context, d Draft) (Product, error) {
	p, err := s.gw.CreateProduct(ctx, d)
	if err != nil {
		s.log.Warn("create product failed", zap.Error(err))
		return Product{}, err
	}

	s.apply(func(st *State) {
		st.Products = append(st.Products, p)
	})
	return p, nil
}

// Update replaces the matching record in place. When the returned id is not
// in the list the list is left untouched. A failed update both returns the
// error and moves status to failed, same as a failed fetch.
func (s *Store) Update(ctx context.Context, id string, d Draft) (Product, error) {
	p, err := s.gw.UpdateProduct(ctx, id, d)
	if err != nil {
		s.log.Warn("update product failed", zap.Error(err), zap.String("id", id))
		s.apply(func(st *State) {
			st.Status = StatusFailed
			st.Err = err.Error()
		})
		return Product{}, err
	}

	s.apply(func(st *State) {
		for i := range st.Products {
			if st.Products[i].ID == p.ID {
				st.Products[i] = p
				return
			}
		}
	})
	return p, nil
}

// Delete removes the record with the confirmed id; absent ids are a no-op.
// Failures propagate without touching status.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	deleted, err := s.gw.DeleteProduct(ctx, id)
	if err != nil {
		s.log.Warn("delete product failed", zap.Error(err), zap.String("id", id))
		return "", err
	}

	s.apply(func(st *State) {
		kept := st.Products[:0]
		for _, p := range st.Products {
			if p.ID != deleted {
				kept = append(kept, p)
			}
		}
		st.Products = kept
	})
	return deleted, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every mutation.
// Delivery is best effort: a lagging receiver drops notifications rather
// than blocking mutations, and Snapshot always has the latest state.
func (s *Store) Subscribe() <-chan State {
	ch := make(chan State, 8)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) apply(mut func(*State)) {
	s.mu.Lock()
	mut(&s.state)
	snap := s.snapshotLocked()
	subs := append([]chan State(nil), s.subs...)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Store) snapshotLocked() State {
	out := s.state
	out.Products = make([]Product, len(s.state.Products))
	copy(out.Products, s.state.Products)
	return out
}
