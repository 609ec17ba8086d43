package home

import (
	"sort"
	"strings"
)

// Snapshot is an immutable copy of the home's rooms, services and scenes at
// one point in time.
//
// Iteration order is canonical: every list is stably sorted by case-folded
// name, so two services with equal names keep the order the platform
// reported them in. Slices returned by the accessors are shared and must not
// be modified.
//
// Thread Safety:
//   - A Snapshot is never mutated after NewSnapshot returns, so it may be read
//     from any number of goroutines without locking.
type Snapshot struct {
	rooms    []Room
	services []Service
	scenes   []Scene

	roomsByID    map[string]int
	servicesByID map[string]int
}

// NewSnapshot builds a Snapshot from the given entities. The input slices are
// copied; later changes to them are not observed.
func NewSnapshot(rooms []Room, services []Service, scenes []Scene) *Snapshot {
	s := &Snapshot{
		rooms:    append([]Room(nil), rooms...),
		services: make([]Service, len(services)),
		scenes:   append([]Scene(nil), scenes...),
	}

	for i, svc := range services {
		if svc.RoomID != nil {
			roomID := *svc.RoomID
			svc.RoomID = &roomID
		}
		s.services[i] = svc
	}

	sort.SliceStable(s.rooms, func(i, j int) bool {
		return strings.ToLower(s.rooms[i].Name) < strings.ToLower(s.rooms[j].Name)
	})
	sort.SliceStable(s.services, func(i, j int) bool {
		return strings.ToLower(s.services[i].Name) < strings.ToLower(s.services[j].Name)
	})
	sort.SliceStable(s.scenes, func(i, j int) bool {
		return strings.ToLower(s.scenes[i].Name) < strings.ToLower(s.scenes[j].Name)
	})

	s.roomsByID = make(map[string]int, len(s.rooms))
	for i, room := range s.rooms {
		if _, dup := s.roomsByID[room.ID]; !dup {
			s.roomsByID[room.ID] = i
		}
	}

	s.servicesByID = make(map[string]int, len(s.services))
	for i, svc := range s.services {
		key := strings.ToLower(svc.ID)
		if _, dup := s.servicesByID[key]; !dup {
			s.servicesByID[key] = i
		}
	}

	return s
}

// Rooms returns all rooms in canonical order.
func (s *Snapshot) Rooms() []Room {
	if s == nil {
		return nil
	}
	return s.rooms
}

// Services returns all services in canonical order.
func (s *Snapshot) Services() []Service {
	if s == nil {
		return nil
	}
	return s.services
}

// Scenes returns all scenes in canonical order.
func (s *Snapshot) Scenes() []Scene {
	if s == nil {
		return nil
	}
	return s.scenes
}

// Service looks up a service by ID, ignoring letter case.
func (s *Snapshot) Service(id string) (Service, bool) {
	if s == nil {
		return Service{}, false
	}
	i, ok := s.servicesByID[strings.ToLower(id)]
	if !ok {
		return Service{}, false
	}
	return s.services[i], true
}

// Room looks up a room by ID.
func (s *Snapshot) Room(id string) (Room, bool) {
	if s == nil {
		return Room{}, false
	}
	i, ok := s.roomsByID[id]
	if !ok {
		return Room{}, false
	}
	return s.rooms[i], true
}

// RoomName returns the name of the room the service is assigned to, or ""
// when the service is unassigned or its room no longer exists.
func (s *Snapshot) RoomName(svc Service) string {
	if svc.RoomID == nil {
		return ""
	}
	room, ok := s.Room(*svc.RoomID)
	if !ok {
		return ""
	}
	return room.Name
}

// Counts returns the number of rooms, services and scenes.
func (s *Snapshot) Counts() (rooms, services, scenes int) {
	if s == nil {
		return 0, 0, 0
	}
	return len(s.rooms), len(s.services), len(s.scenes)
}
