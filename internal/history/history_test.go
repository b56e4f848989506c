package history

import (
	"context"
	"testing"
)

func TestMemoryLoadOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 0; i < 2; i++ {
		msgs, err := s.LoadOrCreate(ctx, "abc")
		if err != nil {
			t.Fatalf("LoadOrCreate: %v", err)
		}
		if len(msgs) != 0 {
			t.Fatalf("expected empty history, got %d", len(msgs))
		}
	}
}

func TestMemoryAppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Append(ctx, "abc", Message{Role: RoleUser, Content: "hi"}, Message{Role: RoleAssistant, Content: "hello"})
	_ = s.Append(ctx, "abc", Message{Role: RoleUser, Content: "prices?"})
	_ = s.Append(ctx, "other", Message{Role: RoleUser, Content: "unrelated"})

	msgs, err := s.LoadOrCreate(ctx, "abc")
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Content != "hi" || msgs[2].Content != "prices?" {
		t.Fatalf("history = %+v", msgs)
	}

	// returned slices are copies
	msgs[0].Content = "changed"
	again, _ := s.LoadOrCreate(ctx, "abc")
	if again[0].Content != "hi" {
		t.Fatal("store mutated through returned slice")
	}
}
