package home

import (
	"sync"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNewSnapshot_SortsByFoldedName(t *testing.T) {
	snap := NewSnapshot(
		[]Room{{ID: "r2", Name: "office"}, {ID: "r1", Name: "Bedroom"}},
		[]Service{
			{ID: "s1", Name: "Office Spotlights", Type: ServiceTypeLightbulb, RoomID: strPtr("r2")},
			{ID: "s2", Name: "bedroom Spotlights", Type: ServiceTypeLightbulb, RoomID: strPtr("r1")},
			{ID: "s3", Name: "Bedroom Light", Type: ServiceTypeLightbulb, RoomID: strPtr("r1")},
		},
		[]Scene{{ID: "c2", Name: "Goodnight"}, {ID: "c1", Name: "Good Morning"}},
	)

	rooms := snap.Rooms()
	if rooms[0].Name != "Bedroom" || rooms[1].Name != "office" {
		t.Errorf("rooms order = %v", rooms)
	}

	wantServices := []string{"Bedroom Light", "bedroom Spotlights", "Office Spotlights"}
	for i, svc := range snap.Services() {
		if svc.Name != wantServices[i] {
			t.Errorf("services[%d] = %q, want %q", i, svc.Name, wantServices[i])
		}
	}

	if snap.Scenes()[0].Name != "Good Morning" {
		t.Errorf("scenes[0] = %q, want Good Morning", snap.Scenes()[0].Name)
	}
}

func TestNewSnapshot_StableForEqualNames(t *testing.T) {
	snap := NewSnapshot(nil, []Service{
		{ID: "first", Name: "Spotlights"},
		{ID: "second", Name: "spotlights"},
	}, nil)

	if got := snap.Services()[0].ID; got != "first" {
		t.Errorf("first service = %q, want first (stable order)", got)
	}
}

func TestNewSnapshot_CopiesInput(t *testing.T) {
	roomID := "r1"
	services := []Service{{ID: "s1", Name: "Lamp", RoomID: &roomID}}
	snap := NewSnapshot(nil, services, nil)

	services[0].Name = "Changed"
	roomID = "r2"

	svc := snap.Services()[0]
	if svc.Name != "Lamp" {
		t.Errorf("Name = %q, snapshot observed caller mutation", svc.Name)
	}
	if *svc.RoomID != "r1" {
		t.Errorf("RoomID = %q, snapshot observed caller mutation", *svc.RoomID)
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	snap := NewSnapshot(
		[]Room{{ID: "r1", Name: "Kitchen"}},
		[]Service{
			{ID: "ABCD-1234", Name: "Kitchen Light", RoomID: strPtr("r1")},
			{ID: "EF01-5678", Name: "Hall Light"},
		},
		nil,
	)

	svc, ok := snap.Service("abcd-1234")
	if !ok || svc.Name != "Kitchen Light" {
		t.Fatalf("Service(lowercase id) = %v, %v", svc, ok)
	}
	if got := snap.RoomName(svc); got != "Kitchen" {
		t.Errorf("RoomName = %q, want Kitchen", got)
	}

	hall, _ := snap.Service("EF01-5678")
	if got := snap.RoomName(hall); got != "" {
		t.Errorf("RoomName(unassigned) = %q, want empty", got)
	}

	if _, ok := snap.Service("missing"); ok {
		t.Error("Service(missing) reported found")
	}
	if _, ok := snap.Room("missing"); ok {
		t.Error("Room(missing) reported found")
	}
}

func TestSnapshot_NilIsEmpty(t *testing.T) {
	var snap *Snapshot

	if len(snap.Rooms())+len(snap.Services())+len(snap.Scenes()) != 0 {
		t.Error("nil snapshot should expose no entities")
	}
	if _, ok := snap.Service("x"); ok {
		t.Error("nil snapshot Service() reported found")
	}
	r, s, c := snap.Counts()
	if r != 0 || s != 0 || c != 0 {
		t.Errorf("Counts() = %d,%d,%d", r, s, c)
	}
}

func TestServiceType_Valid(t *testing.T) {
	for _, st := range AllServiceTypes() {
		if !st.Valid() {
			t.Errorf("%q should be valid", st)
		}
	}
	if ServiceType("toaster").Valid() {
		t.Error("toaster should not be valid")
	}
	if !ServiceTypeContactSensor.IsSensor() || ServiceTypeLightbulb.IsSensor() {
		t.Error("IsSensor mismatch")
	}
}

func TestStore_CurrentNeverNil(t *testing.T) {
	store := NewStore()
	if store.Current() == nil {
		t.Fatal("Current() returned nil before publish")
	}
	if store.Version() != 0 {
		t.Errorf("Version() = %d, want 0", store.Version())
	}

	if v := store.Publish(nil); v != 1 {
		t.Errorf("Publish(nil) version = %d, want 1", v)
	}
	if store.Current() == nil {
		t.Fatal("Current() returned nil after Publish(nil)")
	}
}

func TestStore_ConcurrentPublish(t *testing.T) {
	store := NewStore()
	snap := NewSnapshot(nil, []Service{{ID: "s1", Name: "Lamp"}}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Publish(snap)
		}()
		go func() {
			defer wg.Done()
			_ = store.Current().Services()
		}()
	}
	wg.Wait()

	if store.Version() != 20 {
		t.Errorf("Version() = %d, want 20", store.Version())
	}
	if store.Current() != snap {
		t.Error("Current() is not the published snapshot")
	}
}
