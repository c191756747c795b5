package agent

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
)

// StateReadWriter provides read/write access to session state using context
// for routing.
type StateReadWriter interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
	Clear(ctx context.Context) error
}

type stateKeyContext struct{}

const defaultStateKey = "default"

// WithStateKey sets a routing key for state storage in the context.
func WithStateKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, stateKeyContext{}, key)
}

// StateKeyFromContext gets the routing key from the context.
func StateKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(stateKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func stateKeyOrDefault(ctx context.Context) (string, bool) {
	key, ok := StateKeyFromContext(ctx)
	if ok && key != "" {
		return key, true
	}
	return defaultStateKey, true
}

// StateStore keeps one snapshot per session key. Snapshots are copied in and
// out so callers never share answer maps with the cache.
type StateStore struct {
	store Store[[]byte]
	init  func(ctx context.Context) *State
}

func NewStateStore(core Cache[[]byte], init func(ctx context.Context) *State) *StateStore {
	return &StateStore{
		store: NewCache(core, "stepper:state", stateKeyOrDefault),
		init:  init,
	}
}

func NewMemoryStateStore(init func(ctx context.Context) *State) *StateStore {
	return NewStateStore(NewMemoryCache[[]byte](), init)
}

func (s *StateStore) Load(ctx context.Context) (*State, error) {
	data, ok, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		if s.init != nil {
			return s.init(ctx), nil
		}
		return &State{}, nil
	}
	var state State
	if err := sonic.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &state, nil
}

func (s *StateStore) Save(ctx context.Context, state *State) error {
	data, err := sonic.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return s.store.Set(ctx, data)
}

func (s *StateStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

var _ StateReadWriter = (*StateStore)(nil)
