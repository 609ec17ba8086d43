package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/group"
	"github.com/nickustinov/homebar/internal/home"
)

const groupPrefix = "group."

// byRoomGroup handles "<Room>/group.<Name>".
//
// The room must match exactly; an unknown room is a terminal NotFound. A
// group scoped to that room wins over a global group of the same name.
func byRoomGroup(req *request) (Result, bool) {
	roomPart, target, found := strings.Cut(req.text, "/")
	if !found || !hasPrefixFold(strings.TrimSpace(target), groupPrefix) {
		return Result{}, false
	}

	roomPart = strings.TrimSpace(roomPart)
	name := strings.TrimSpace(strings.TrimSpace(target)[len(groupPrefix):])

	var room *home.Room
	for _, r := range req.snap.Rooms() {
		if strings.EqualFold(r.Name, roomPart) {
			room = &r
			break
		}
	}
	if room == nil || name == "" {
		return notFound(req.raw), true
	}

	var chosen *group.Group
	for i := range req.groups {
		g := &req.groups[i]
		if g.InRoom(room.ID) && strings.EqualFold(g.Name, name) {
			chosen = g
			break
		}
	}
	if chosen == nil {
		for i := range req.groups {
			g := &req.groups[i]
			if !g.IsRoomScoped() && strings.EqualFold(g.Name, name) {
				chosen = g
				break
			}
		}
	}
	if chosen == nil {
		return notFound(req.raw), true
	}

	return projected(*chosen, req.snap, req.raw), true
}

// byGlobalGroup handles "group.<Name>" (exact, then unique substring, else
// a terminal NotFound) and bare queries that exactly name a group. Only
// global groups take part; room-scoped groups are reachable through
// byRoomGroup alone.
func byGlobalGroup(req *request) (Result, bool) {
	global := make([]group.Group, 0, len(req.groups))
	for _, g := range req.groups {
		if !g.IsRoomScoped() {
			global = append(global, g)
		}
	}

	if hasPrefixFold(req.text, groupPrefix) {
		name := req.text[len(groupPrefix):]
		if name == "" {
			return notFound(req.text), true
		}

		label := groupPrefix + name
		g, ok := findByName(global, groupName, name)
		if !ok {
			return notFound(label), true
		}
		return projected(g, req.snap, label), true
	}

	// Bare names must match exactly so a group cannot shadow a device with
	// a similar name.
	for _, g := range global {
		if strings.EqualFold(g.Name, req.text) {
			return projected(g, req.snap, req.raw), true
		}
	}

	return Result{}, false
}

// projected resolves a group to its live services; a group left with none
// is reported as NotFound(label).
func projected(g group.Group, snap *home.Snapshot, label string) Result {
	services := g.Project(snap)
	if len(services) == 0 {
		return notFound(label)
	}
	return servicesResult(services)
}

func groupName(g group.Group) string { return g.Name }
