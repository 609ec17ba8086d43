package group

import (
	"time"

	"github.com/nickustinov/homebar/internal/home"
)

// Group is a user-defined alias over a fixed, ordered list of service IDs.
//
// A group with a RoomID is room-scoped: it is only addressable through the
// "<Room>/group.<Name>" form. DeviceIDs may reference services that no longer
// exist; those are dropped when the group is projected.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoomID    *string   `json:"room_id,omitempty"`
	DeviceIDs []string  `json:"device_ids"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRoomScoped reports whether the group belongs to a specific room.
func (g Group) IsRoomScoped() bool {
	return g.RoomID != nil
}

// InRoom reports whether the group is scoped to the given room.
func (g Group) InRoom(roomID string) bool {
	return g.RoomID != nil && *g.RoomID == roomID
}

// Project maps the group's member IDs onto live services in the snapshot.
//
// The result follows DeviceIDs order. IDs with no matching service are
// skipped, and a service listed twice appears once. An empty result means
// the group currently refers to nothing.
func (g Group) Project(snap *home.Snapshot) []home.Service {
	services := make([]home.Service, 0, len(g.DeviceIDs))
	seen := make(map[string]struct{}, len(g.DeviceIDs))

	for _, id := range g.DeviceIDs {
		svc, ok := snap.Service(id)
		if !ok {
			continue
		}
		if _, dup := seen[svc.ID]; dup {
			continue
		}
		seen[svc.ID] = struct{}{}
		services = append(services, svc)
	}

	return services
}

// DeepCopy returns a copy that shares no memory with g.
func (g Group) DeepCopy() Group {
	cp := g
	if g.RoomID != nil {
		roomID := *g.RoomID
		cp.RoomID = &roomID
	}
	cp.DeviceIDs = append([]string(nil), g.DeviceIDs...)
	return cp
}
