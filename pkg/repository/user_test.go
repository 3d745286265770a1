package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
	"github.com/secmon-lab/pulse/pkg/repository"
)

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("UpsertMany with empty list", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		if err := repo.User().UpsertMany(ctx, []*model.User{}); err != nil {
			t.Fatalf("failed to upsert empty list: %v", err)
		}

		users, err := repo.User().GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to get all users: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("expected 0 users, got %d", len(users))
		}
	})

	t.Run("UpsertMany and GetAll ordered by display name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now()
		base := fmt.Sprintf("U%d", now.UnixNano())

		users := []*model.User{
			{ID: types.UserID(base + "_1"), Name: "carol", RealName: "Carol Danvers", UpdatedAt: now},
			{ID: types.UserID(base + "_2"), Name: "alice", RealName: "Alice Smith", UpdatedAt: now},
			// No real name: display name falls back to Name
			{ID: types.UserID(base + "_3"), Name: "bob", UpdatedAt: now},
		}

		if err := repo.User().UpsertMany(ctx, users); err != nil {
			t.Fatalf("failed to upsert users: %v", err)
		}

		got, err := repo.User().GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to get all users: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 users, got %d", len(got))
		}

		wantOrder := []string{"Alice Smith", "Carol Danvers", "bob"}
		for i, want := range wantOrder {
			if got[i].DisplayName() != want {
				t.Errorf("order mismatch at %d: expected %q, got %q", i, want, got[i].DisplayName())
			}
		}
	})

	t.Run("GetByID returns user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now()

		userID := types.UserID(fmt.Sprintf("U%d", now.UnixNano()))
		user := &model.User{
			ID:        userID,
			Name:      "alice",
			RealName:  "Alice Smith",
			Email:     "alice@example.com",
			Title:     "SRE",
			Timezone:  "Asia/Tokyo",
			UpdatedAt: now,
		}

		if err := repo.User().UpsertMany(ctx, []*model.User{user}); err != nil {
			t.Fatalf("failed to upsert user: %v", err)
		}

		got, err := repo.User().GetByID(ctx, userID)
		if err != nil {
			t.Fatalf("failed to get user by ID: %v", err)
		}

		if got.Name != user.Name {
			t.Errorf("Name mismatch: expected %q, got %q", user.Name, got.Name)
		}
		if got.Email != user.Email {
			t.Errorf("Email mismatch: expected %q, got %q", user.Email, got.Email)
		}
		if got.Title != user.Title {
			t.Errorf("Title mismatch: expected %q, got %q", user.Title, got.Title)
		}
		if got.Timezone != user.Timezone {
			t.Errorf("Timezone mismatch: expected %q, got %q", user.Timezone, got.Timezone)
		}
	})

	t.Run("GetByID returns NotFound for missing user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		missingID := types.UserID(fmt.Sprintf("U_MISSING_%d", time.Now().UnixNano()))
		_, err := repo.User().GetByID(ctx, missingID)
		if err == nil {
			t.Fatal("expected error for missing user, got nil")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpsertMany overwrites existing users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now()

		userID := types.UserID(fmt.Sprintf("U%d", now.UnixNano()))

		first := &model.User{ID: userID, Name: "alice.old", RealName: "Alice Old", UpdatedAt: now}
		if err := repo.User().UpsertMany(ctx, []*model.User{first}); err != nil {
			t.Fatalf("failed to upsert initial user: %v", err)
		}

		second := &model.User{ID: userID, Name: "alice.new", RealName: "Alice New", UpdatedAt: now.Add(time.Hour)}
		if err := repo.User().UpsertMany(ctx, []*model.User{second}); err != nil {
			t.Fatalf("failed to overwrite user: %v", err)
		}

		got, err := repo.User().GetByID(ctx, userID)
		if err != nil {
			t.Fatalf("failed to get user by ID: %v", err)
		}
		if got.Name != "alice.new" {
			t.Errorf("Name not updated: expected %q, got %q", "alice.new", got.Name)
		}
	})
}

func TestMemoryUserRepository(t *testing.T) {
	runUserRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreUserRepository(t *testing.T) {
	runUserRepositoryTest(t, newFirestoreRepository)
}
