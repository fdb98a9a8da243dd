package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/domain"
)

// State is the catalog load lifecycle. The store is constructed idle,
// enters loading exactly once, and ends up ready or error.
type State string

const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StateReady   State = "READY"
	StateError   State = "ERROR"
)

// transitions enumerates the legal lifecycle moves.
var transitions = map[State][]State{
	StateIdle:    {StateLoading},
	StateLoading: {StateReady, StateError},
	StateReady:   {},
	StateError:   {},
}

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrIllegalTransition = errors.New("illegal catalog state transition")
)

// Fetcher is the catalog's view of the storefront API.
// Consumers define this interface, not the HTTP client.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// Store owns the fetched product and category lists. Data is read-only to
// all consumers once ready; accessors are safe to call while loading.
type Store struct {
	fetcher Fetcher
	log     *zap.Logger

	mu         sync.RWMutex
	state      State
	products   []domain.Product
	categories []string
	err        error
}

func NewStore(fetcher Fetcher, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		fetcher: fetcher,
		log:     log,
		state:   StateIdle,
	}
}

// Load fetches products and categories concurrently and settles the store
// into ready or error. A category-fetch failure is non-critical: it is
// logged and the store still becomes ready. A product-fetch failure moves
// the store to error and records the cause.
func (s *Store) Load(ctx context.Context) error {
	if err := s.transition(StateLoading); err != nil {
		return err
	}

	var (
		wg          sync.WaitGroup
		products    []domain.Product
		categories  []string
		productErr  error
		categoryErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		products, productErr = s.fetcher.FetchProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, categoryErr = s.fetcher.FetchCategories(ctx)
	}()
	wg.Wait()

	if categoryErr != nil {
		s.log.Warn("category fetch failed, continuing without categories",
			zap.Error(categoryErr))
	}

	if productErr != nil {
		s.mu.Lock()
		s.state = StateError
		s.err = fmt.Errorf("load products: %w", productErr)
		s.mu.Unlock()
		return s.Err()
	}

	s.mu.Lock()
	s.state = StateReady
	s.products = products
	s.categories = categories
	s.mu.Unlock()

	s.log.Info("catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("categories", len(categories)))
	return nil
}

// GetByID looks a product up by its raw id, typically a route parameter.
// The id is parsed to an integer first; a non-numeric id never matches.
func (s *Store) GetByID(raw string) (*domain.Product, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, ErrProductNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

// GetByCategory returns all products whose category matches exactly.
// The empty string matches nothing, it is not a wildcard.
func (s *Store) GetByCategory(category string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Product
	for _, p := range s.products {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched
}

// Products returns the fetched product list in fetch order.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns the fetched category list, empty if the category
// fetch failed.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err reports the recorded load failure, nil unless the store is in error.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, allowed := range transitions[s.state] {
		if allowed == to {
			s.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, to)
}
