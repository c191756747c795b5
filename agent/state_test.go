package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formstepper/types"
)

// TestStateStoreRoutesByKey keeps sessions apart and copies snapshots.
func TestStateStoreRoutesByKey(t *testing.T) {
	t.Parallel()
	store := NewMemoryStateStore(func(ctx context.Context) *State {
		return &State{Status: types.StatusWelcome}
	})
	alice := WithStateKey(context.Background(), "alice")
	bob := WithStateKey(context.Background(), "bob")

	state := &State{Status: types.StatusActive, PageIndex: 2, Answers: types.Answers{"Age": types.Text("29")}}
	if err := store.Save(alice, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	state.Answers["Age"] = types.Text("99")

	got, err := store.Load(alice)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Status != types.StatusActive || got.PageIndex != 2 || got.Answers.Get("Age").String() != "29" {
		t.Errorf("unexpected snapshot %+v", got)
	}
	fresh, err := store.Load(bob)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fresh.Status != types.StatusWelcome {
		t.Errorf("unknown sessions start from init, got %+v", fresh)
	}
	if err := store.Clear(alice); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ = store.Load(alice)
	if got.Status != types.StatusWelcome {
		t.Errorf("cleared session should start over, got %+v", got)
	}
}

func TestStoreRequiresKey(t *testing.T) {
	t.Parallel()
	core := NewMemoryCache[int]()
	s := NewCache[int](core, "ns", StateKeyFromContext)
	if err := s.Set(context.Background(), 1); !errors.Is(err, ErrNoStateKey) {
		t.Errorf("expected ErrNoStateKey, got %v", err)
	}
	ctx := WithStateKey(context.Background(), "k")
	if err := s.Set(ctx, 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ok, _ := core.Exists(ctx, "ns:k"); !ok || core.Len() != 1 {
		t.Error("value should be stored under the namespaced key")
	}
	if ok, _ := s.Exists(ctx); !ok {
		t.Error("Exists should see the stored value")
	}
	if err := s.Del(ctx); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := s.Get(ctx); ok {
		t.Error("value should be deleted")
	}
}

// TestHistoryStore drops repeated messages and keeps system messages when
// trimming.
func TestHistoryStore(t *testing.T) {
	t.Parallel()
	h := NewMemoryHistoryStore(KeepSystemLastNTrimmer{N: 2})
	ctx := WithStateKey(context.Background(), "s")
	if _, err := h.Append(ctx, schema.SystemMessage("sys"), schema.UserMessage("a"), schema.UserMessage("a")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	hist, err := h.Append(ctx, schema.AssistantMessage("b", nil), schema.UserMessage("c"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(hist) != 3 || hist[0].Role != schema.System || hist[1].Content != "b" || hist[2].Content != "c" {
		t.Fatalf("expected system plus last two, got %v", hist)
	}
	saved, _ := h.Load(ctx)
	if len(saved) != len(hist) {
		t.Errorf("Append should return what it saved, got %d and %d", len(hist), len(saved))
	}
	first, _ := h.Load(WithStateKey(context.Background(), "other"))
	if first != nil {
		t.Errorf("sessions do not share history, got %v", first)
	}
	if got := lastAssistantContent(saved); got != "b" {
		t.Errorf("lastAssistantContent = %q", got)
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache(WithTTL[string](time.Hour))
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v")
	now = now.Add(59 * time.Minute)
	if v, ok, _ := c.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("entry should still be there, got %q %v", v, ok)
	}
	now = now.Add(2 * time.Minute)
	if ok, _ := c.Exists(ctx, "k"); ok {
		t.Fatal("idle entry should expire")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be dropped, len=%d", c.Len())
	}
}
