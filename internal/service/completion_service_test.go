package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"teamtasks/internal/model"
)

func firstOccurrence(t *testing.T, env *testEnv, listID, userID string) model.Occurrence {
	t.Helper()
	occurrences, err := env.taskLists.ListOccurrences(context.Background(), userID, listID)
	if err != nil {
		t.Fatalf("list occurrences: %v", err)
	}
	if len(occurrences) == 0 {
		t.Fatal("no occurrences materialized")
	}
	return occurrences[0]
}

func TestSetCompletionIdempotentComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	list := env.createList(t, owner, nil)
	env.createDailyTask(t, owner.ID, list.ID)
	occurrence := firstOccurrence(t, env, list.ID, owner.ID)

	got, err := env.completions.SetCompletion(ctx, owner.ID, occurrence.ID, true)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if len(got.Completions) != 1 {
		t.Fatalf("got %d completions, want 1", len(got.Completions))
	}
	firstStamp := got.Completions[0].CompletedAt

	// A later repeat must not touch the original timestamp.
	env.completions.Now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	got, err = env.completions.SetCompletion(ctx, owner.ID, occurrence.ID, true)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if len(got.Completions) != 1 {
		t.Fatalf("repeat complete left %d completions, want 1", len(got.Completions))
	}
	if !got.Completions[0].CompletedAt.Equal(firstStamp) {
		t.Fatalf("repeat complete changed CompletedAt: %v -> %v", firstStamp, got.Completions[0].CompletedAt)
	}
}

func TestSetCompletionIdempotentUncomplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	list := env.createList(t, owner, nil)
	env.createDailyTask(t, owner.ID, list.ID)
	occurrence := firstOccurrence(t, env, list.ID, owner.ID)

	// Uncompleting something never completed is not an error.
	got, err := env.completions.SetCompletion(ctx, owner.ID, occurrence.ID, false)
	if err != nil {
		t.Fatalf("uncomplete without completion: %v", err)
	}
	if len(got.Completions) != 0 {
		t.Fatalf("got %d completions, want 0", len(got.Completions))
	}

	if _, err := env.completions.SetCompletion(ctx, owner.ID, occurrence.ID, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	for range 2 {
		got, err = env.completions.SetCompletion(ctx, owner.ID, occurrence.ID, false)
		if err != nil {
			t.Fatalf("uncomplete: %v", err)
		}
	}
	if len(got.Completions) != 0 {
		t.Fatalf("got %d completions after double uncomplete, want 0", len(got.Completions))
	}
}

func TestSetCompletionPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	member := env.createUser(t, "member@example.com")
	list := env.createList(t, owner, map[*model.User]model.Role{member: model.RoleMember})
	env.createDailyTask(t, owner.ID, list.ID)
	occurrence := firstOccurrence(t, env, list.ID, owner.ID)

	if _, err := env.completions.SetCompletion(ctx, owner.ID, occurrence.ID, true); err != nil {
		t.Fatalf("owner complete: %v", err)
	}
	got, err := env.completions.SetCompletion(ctx, member.ID, occurrence.ID, true)
	if err != nil {
		t.Fatalf("member complete: %v", err)
	}

	if len(got.Completions) != 2 {
		t.Fatalf("got %d completions, want one per user", len(got.Completions))
	}
	for _, completion := range got.Completions {
		if completion.User == nil {
			t.Fatal("completion returned without user info")
		}
	}
}

func TestSetCompletionRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	outsider := env.createUser(t, "outsider@example.com")
	list := env.createList(t, owner, nil)
	env.createDailyTask(t, owner.ID, list.ID)
	occurrence := firstOccurrence(t, env, list.ID, owner.ID)

	_, err := env.completions.SetCompletion(ctx, outsider.ID, occurrence.ID, true)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestSetCompletionMissingOccurrence(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")

	_, err := env.completions.SetCompletion(context.Background(), owner.ID, "nope", true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
