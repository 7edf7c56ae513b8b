package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/agropro-ai/agropro/internal/data/redisStore"
	"github.com/agropro-ai/agropro/internal/data/store"
	"github.com/agropro-ai/agropro/internal/domain/chatModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func sampleSnapshot(sessionId string) chatModel.SessionSnapshot {
	return chatModel.SessionSnapshot{
		SessionId: sessionId,
		Turns: []chatModel.Turn{
			{Role: chatModel.RoleUser, Content: "when do I plant barley?"},
			{Role: chatModel.RoleAssistant, Content: "Early spring, once soil is workable."},
		},
		Transcript: []chatModel.TranscriptEntry{
			{Role: chatModel.RoleUser, Content: "when do I plant barley?", CreatedAt: time.Now().UTC()},
			{Role: chatModel.RoleAssistant, Content: "Early spring, once soil is workable.", CreatedAt: time.Now().UTC()},
		},
		SavedAt: time.Now().UTC(),
	}
}

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionStore := store.TestSessionStore(redisStore.NewTestStore(client), 168*time.Hour)

	ctx := context.Background()
	snapshot := sampleSnapshot("sess-barley")

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := sessionStore.SaveSnapshot(ctx, snapshot); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}

		restored, found := sessionStore.GetSnapshot(ctx, "sess-barley")
		if !found {
			t.Fatal("Snapshot was saved but not found")
		}
		if len(restored.Turns) != 2 || restored.Turns[0].Content != snapshot.Turns[0].Content {
			t.Errorf("Turns mismatch: %+v", restored.Turns)
		}
		if len(restored.Transcript) != 2 {
			t.Errorf("Transcript mismatch: %+v", restored.Transcript)
		}
	})

	t.Run("Get Non-Existent Snapshot", func(t *testing.T) {
		if _, found := sessionStore.GetSnapshot(ctx, "ghost-session"); found {
			t.Error("Expected found=false for non-existent snapshot")
		}
	})

	t.Run("Delete Snapshot", func(t *testing.T) {
		sessionStore.DeleteSnapshot(ctx, "sess-barley")
		if _, found := sessionStore.GetSnapshot(ctx, "sess-barley"); found {
			t.Error("Snapshot still exists after delete")
		}
	})
}

func TestInMemorySessionStore_Lifecycle(t *testing.T) {
	sessionStore := store.InitInMemorySessionStore()
	ctx := context.Background()
	snapshot := sampleSnapshot("sess-mem")

	if err := sessionStore.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, found := sessionStore.GetSnapshot(ctx, "sess-mem"); !found {
		t.Fatal("Snapshot not found after save")
	}
	sessionStore.DeleteSnapshot(ctx, "sess-mem")
	if _, found := sessionStore.GetSnapshot(ctx, "sess-mem"); found {
		t.Error("Snapshot still present after delete")
	}
}
