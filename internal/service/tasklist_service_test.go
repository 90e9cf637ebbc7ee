package service

import (
	"context"
	"errors"
	"testing"

	"teamtasks/internal/model"
)

func countOwners(memberships []model.Membership) int {
	owners := 0
	for _, m := range memberships {
		if m.Role == model.RoleOwner {
			owners++
		}
	}
	return owners
}

func TestCreateTaskListMakesCreatorOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")

	list, err := env.taskLists.Create(context.Background(), owner.ID, "chores", "")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	members, err := env.taskLists.ListMembers(context.Background(), owner.ID, list.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != owner.ID {
		t.Fatalf("got members %+v, want just the creator", members)
	}
	if countOwners(members) != 1 {
		t.Fatalf("got %d OWNER memberships, want exactly 1", countOwners(members))
	}
}

func TestCreateTaskListRequiresName(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")

	_, err := env.taskLists.Create(context.Background(), owner.ID, "   ", "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestGetTaskListRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	outsider := env.createUser(t, "outsider@example.com")
	list := env.createList(t, owner, nil)

	if _, err := env.taskLists.Get(ctx, outsider.ID, list.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider get: got %v, want ErrForbidden", err)
	}
	if _, err := env.taskLists.Get(ctx, owner.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown list: got %v, want ErrNotFound", err)
	}
}

func TestListReturnsOnlyMemberLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	other := env.createUser(t, "other@example.com")
	list := env.createList(t, owner, nil)
	env.createList(t, other, nil)

	lists, err := env.taskLists.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(lists) != 1 || lists[0].ID != list.ID {
		t.Fatalf("got %d lists, want only the owned one", len(lists))
	}
}

func TestUpdateTaskListRoleGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	admin := env.createUser(t, "admin@example.com")
	member := env.createUser(t, "member@example.com")
	list := env.createList(t, owner, map[*model.User]model.Role{
		admin:  model.RoleAdmin,
		member: model.RoleMember,
	})

	if _, err := env.taskLists.Update(ctx, member.ID, list.ID, "renamed", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member update: got %v, want ErrForbidden", err)
	}

	updated, err := env.taskLists.Update(ctx, admin.ID, list.ID, "renamed", "new description")
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Name != "renamed" || updated.Description != "new description" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeleteTaskListOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	admin := env.createUser(t, "admin@example.com")
	list := env.createList(t, owner, map[*model.User]model.Role{admin: model.RoleAdmin})

	if err := env.taskLists.Delete(ctx, admin.ID, list.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin delete: got %v, want ErrForbidden", err)
	}
	if err := env.taskLists.Delete(ctx, owner.ID, list.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := env.taskLists.Get(ctx, owner.ID, list.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("list still readable after delete: %v", err)
	}
}

func TestDeleteTaskListCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	list := env.createList(t, owner, nil)
	task := env.createDailyTask(t, owner.ID, list.ID)

	occurrence := firstOccurrence(t, env, list.ID, owner.ID)
	if _, err := env.completions.SetCompletion(ctx, owner.ID, occurrence.ID, true); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := env.taskLists.Delete(ctx, owner.ID, list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	if _, err := env.tasks.Get(ctx, owner.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("task survived cascade: %v", err)
	}
	count, err := env.occurrenceRepo.CountByTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("count occurrences: %v", err)
	}
	if count != 0 {
		t.Fatalf("%d occurrences survived cascade", count)
	}
	completions, err := env.occurrenceRepo.CountCompletions(ctx, occurrence.ID, owner.ID)
	if err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if completions != 0 {
		t.Fatalf("%d completions survived cascade", completions)
	}
}

func TestAddMemberDefaultsAndConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	guest := env.createUser(t, "guest@example.com")
	list := env.createList(t, owner, nil)

	membership, err := env.taskLists.AddMember(ctx, owner.ID, list.ID, guest.ID, "")
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if membership.Role != model.RoleMember {
		t.Fatalf("default role = %s, want MEMBER", membership.Role)
	}

	if _, err := env.taskLists.AddMember(ctx, owner.ID, list.ID, guest.ID, model.RoleMember); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate member: got %v, want ErrConflict", err)
	}
	if _, err := env.taskLists.AddMember(ctx, owner.ID, list.ID, "nope", model.RoleMember); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestAddMemberNeverGrantsOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	guest := env.createUser(t, "guest@example.com")
	list := env.createList(t, owner, nil)

	_, err := env.taskLists.AddMember(context.Background(), owner.ID, list.ID, guest.ID, model.RoleOwner)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestRemoveMemberNeverRemovesOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	admin := env.createUser(t, "admin@example.com")
	list := env.createList(t, owner, map[*model.User]model.Role{admin: model.RoleAdmin})

	_, err := env.taskLists.RemoveMember(ctx, admin.ID, list.ID, owner.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("remove owner: got %v, want ErrForbidden", err)
	}

	// The membership table must be unchanged.
	members, err := env.taskLists.ListMembers(ctx, owner.ID, list.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 || countOwners(members) != 1 {
		t.Fatalf("membership table changed: %+v", members)
	}
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	member := env.createUser(t, "member@example.com")
	list := env.createList(t, owner, map[*model.User]model.Role{member: model.RoleMember})

	members, err := env.taskLists.RemoveMember(ctx, owner.ID, list.ID, member.ID)
	if err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if len(members) != 1 || members[0].UserID != owner.ID {
		t.Fatalf("got members %+v, want only the owner left", members)
	}

	_, err = env.taskLists.RemoveMember(ctx, owner.ID, list.ID, member.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove absent member: got %v, want ErrNotFound", err)
	}
}

func TestMemberCannotManageMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	member := env.createUser(t, "member@example.com")
	guest := env.createUser(t, "guest@example.com")
	list := env.createList(t, owner, map[*model.User]model.Role{member: model.RoleMember})

	if _, err := env.taskLists.AddMember(ctx, member.ID, list.ID, guest.ID, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member adds member: got %v, want ErrForbidden", err)
	}
	if _, err := env.taskLists.RemoveMember(ctx, member.ID, list.ID, member.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member removes member: got %v, want ErrForbidden", err)
	}
}

func TestListOccurrencesRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	outsider := env.createUser(t, "outsider@example.com")
	list := env.createList(t, owner, nil)
	env.createDailyTask(t, owner.ID, list.ID)

	if _, err := env.taskLists.ListOccurrences(ctx, outsider.ID, list.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}

	occurrences, err := env.taskLists.ListOccurrences(ctx, owner.ID, list.ID)
	if err != nil {
		t.Fatalf("list occurrences: %v", err)
	}
	if len(occurrences) == 0 {
		t.Fatal("expected materialized occurrences")
	}
}
