package group

import (
	"context"
	"errors"
	"testing"
)

func TestRegistry_WriteThroughRefresh(t *testing.T) {
	reg := NewRegistry(setupRepo(t))
	ctx := context.Background()

	if err := reg.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(reg.Groups()) != 0 {
		t.Fatalf("Groups() = %d, want 0", len(reg.Groups()))
	}

	g := &Group{Name: "Downstairs", DeviceIDs: []string{"s1", "s2"}}
	if err := reg.Create(ctx, g); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(reg.Groups()) != 1 {
		t.Fatalf("Groups() after Create = %d, want 1", len(reg.Groups()))
	}

	got, err := reg.Get(g.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.DeviceIDs[0] = "mutated"
	if reg.Groups()[0].DeviceIDs[0] != "s1" {
		t.Error("Get() returned memory shared with the cache")
	}

	g.Name = "Ground Floor"
	if err := reg.Update(ctx, g); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if reg.List()[0].Name != "Ground Floor" {
		t.Errorf("List()[0].Name = %q, want Ground Floor", reg.List()[0].Name)
	}

	if err := reg.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := reg.Get(g.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrGroupNotFound", err)
	}
}

type failingRepo struct{ Repository }

func (failingRepo) List(context.Context) ([]Group, error) {
	return nil, errors.New("disk on fire")
}

func TestRegistry_RefreshError(t *testing.T) {
	reg := NewRegistry(failingRepo{})
	if err := reg.Refresh(context.Background()); err == nil {
		t.Error("Refresh() expected error")
	}
}
