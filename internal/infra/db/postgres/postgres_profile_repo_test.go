//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"tutoring-platform/internal/domain/model"
)

func TestProfileRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewProfileRepo(testPool)

	seed := func(t *testing.T, remaining int) *model.Profile {
		cleanup(t)
		p := &model.Profile{ID: "user-1", Email: "student@example.com", ClassesRemaining: remaining, CreatedAt: time.Now()}
		if err := repo.Save(ctx, nil, p); err != nil {
			t.Fatalf("failed to save profile: %v", err)
		}
		return p
	}

	t.Run("grant classes stacks on remaining credits", func(t *testing.T) {
		seed(t, 3)

		if err := repo.GrantClasses(ctx, nil, "user-1", 8, "Progress"); err != nil {
			t.Fatalf("GrantClasses failed: %v", err)
		}

		p, _ := repo.FindByID(ctx, nil, "user-1")
		if p.ClassesRemaining != 11 {
			t.Errorf("classes remaining = %d, want 11", p.ClassesRemaining)
		}
		if p.CurrentPlan != "Progress" {
			t.Errorf("current plan = %q, want Progress", p.CurrentPlan)
		}
		if !p.FreeClassUsed {
			t.Error("free class flag should be consumed by a grant")
		}
	})

	t.Run("consume class refuses to go negative", func(t *testing.T) {
		seed(t, 1)

		ok, err := repo.ConsumeClass(ctx, nil, "user-1", false)
		if err != nil || !ok {
			t.Fatalf("first ConsumeClass = %v, %v; want consumed", ok, err)
		}
		ok, err = repo.ConsumeClass(ctx, nil, "user-1", false)
		if err != nil {
			t.Fatalf("second ConsumeClass failed: %v", err)
		}
		if ok {
			t.Error("expected second ConsumeClass to refuse")
		}

		p, _ := repo.FindByID(ctx, nil, "user-1")
		if p.ClassesRemaining != 0 {
			t.Errorf("classes remaining = %d, want 0", p.ClassesRemaining)
		}
	})

	t.Run("consume class can mark the free trial", func(t *testing.T) {
		seed(t, 1)

		if _, err := repo.ConsumeClass(ctx, nil, "user-1", true); err != nil {
			t.Fatalf("ConsumeClass failed: %v", err)
		}
		p, _ := repo.FindByID(ctx, nil, "user-1")
		if !p.FreeClassUsed {
			t.Error("free class flag not set")
		}
	})
}
