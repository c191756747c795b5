package agent

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Trimmer bounds the chat history kept for a session.
type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepSystemLastNTrimmer keeps every system message and the newest N other
// messages. With N <= 0 only system messages survive.
type KeepSystemLastNTrimmer struct {
	N int
}

func (t KeepSystemLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	budget := max(t.N, 0)
	keep := make([]bool, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		switch m := history[i]; {
		case m == nil:
		case m.Role == schema.System:
			keep[i] = true
		case budget > 0:
			keep[i] = true
			budget--
		}
	}
	out := make([]*schema.Message, 0, len(history))
	for i, m := range history {
		if keep[i] {
			out = append(out, m)
		}
	}
	return out
}

type HistoryReadWriter interface {
	Load(ctx context.Context) ([]*schema.Message, error)
	Save(ctx context.Context, history []*schema.Message) error
	Clear(ctx context.Context) error

	// Append adds msgs, skipping a message that repeats the previous one,
	// trims and saves. The saved history is returned so it can be handed to
	// the runner directly.
	Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error)
}

// HistoryStore keeps the conversation of each session next to its stepper
// snapshot, under the same state key.
type HistoryStore struct {
	store   Store[[]*schema.Message]
	trimmer Trimmer
}

func NewHistoryStore(core Cache[[]*schema.Message], trimmer Trimmer) *HistoryStore {
	return &HistoryStore{
		store:   NewCache(core, "stepper:history", stateKeyOrDefault),
		trimmer: trimmer,
	}
}

func NewMemoryHistoryStore(trimmer Trimmer) *HistoryStore {
	return NewHistoryStore(NewMemoryCache[[]*schema.Message](), trimmer)
}

func (s *HistoryStore) Load(ctx context.Context) ([]*schema.Message, error) {
	hist, _, err := s.store.Get(ctx)
	return hist, err
}

func (s *HistoryStore) Save(ctx context.Context, history []*schema.Message) error {
	return s.store.Set(ctx, s.trim(history))
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

func (s *HistoryStore) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	hist, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		if msg == nil || repeats(hist, msg) {
			continue
		}
		hist = append(hist, msg)
	}
	hist = s.trim(hist)
	if err := s.store.Set(ctx, hist); err != nil {
		return nil, err
	}
	return hist, nil
}

func (s *HistoryStore) trim(history []*schema.Message) []*schema.Message {
	if s.trimmer == nil {
		return compact(history)
	}
	return s.trimmer.Trim(history)
}

func repeats(history []*schema.Message, msg *schema.Message) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	return last != nil && last.Role == msg.Role && last.Content == msg.Content
}

func compact(history []*schema.Message) []*schema.Message {
	out := history[:0:0]
	for _, m := range history {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

var _ HistoryReadWriter = (*HistoryStore)(nil)

// lastAssistantContent returns the newest assistant message in history.
func lastAssistantContent(history []*schema.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if m := history[i]; m != nil && m.Role == schema.Assistant {
			return m.Content
		}
	}
	return ""
}
