package users

import (
	"context"
	"errors"
	"testing"

	"github.com/ignite/users-server/internal/domain"
)

func TestCreate_AssignsIDAndIgnoresSupplied(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, err := svc.Create(ctx, domain.User{ID: 99, Name: "Ann", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != 1 {
		t.Errorf("expected store-assigned id 1, got %d", u.ID)
	}

	got, err := svc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ann" || got.Email != "ann@x.com" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestGet_MissingReturnsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.Get(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_EmptyIsNonNil(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	out, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if out == nil {
		t.Fatal("expected empty non-nil slice")
	}
	if len(out) != 0 {
		t.Errorf("expected 0 users, got %d", len(out))
	}
}

func TestUpdate_KeepsIDAndChangesFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, _ := svc.Create(ctx, domain.User{Name: "Ann", Email: "ann@x.com"})
	if err := svc.Update(ctx, u.ID, domain.User{ID: 500, Name: "Bob", Email: "b@x.com"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != u.ID || got.Name != "Bob" || got.Email != "b@x.com" {
		t.Errorf("unexpected user after update: %+v", got)
	}
	if _, err := svc.Get(ctx, 500); !errors.Is(err, ErrNotFound) {
		t.Error("update must not create a record under the payload id")
	}
}

func TestUpdate_MissingIsNoop(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if err := svc.Update(ctx, 42, domain.User{Name: "Bob", Email: "b@x.com"}); err != nil {
		t.Fatalf("Update on missing id should succeed, got %v", err)
	}
	out, _ := svc.List(ctx)
	if len(out) != 0 {
		t.Errorf("update on missing id created %d rows", len(out))
	}
}

func TestDelete_SecondDeleteIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	u, _ := svc.Create(ctx, domain.User{Name: "Ann", Email: "ann@x.com"})
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := svc.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestCreate_IDsAreNeverReused(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	a, _ := svc.Create(ctx, domain.User{Name: "A", Email: "a@x.com"})
	_ = svc.Delete(ctx, a.ID)
	b, _ := svc.Create(ctx, domain.User{Name: "B", Email: "b@x.com"})
	if b.ID == a.ID {
		t.Errorf("id %d was reused", a.ID)
	}
}
