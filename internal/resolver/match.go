package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/home"
)

// hasPrefixFold reports whether s starts with prefix, ignoring case.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// containsFold reports whether s contains the already lower-cased needle.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// findByName picks one item by name: the first exact (case-folded) match,
// otherwise the only item whose name contains target. Several substring
// matches and no exact match yields false.
func findByName[T any](items []T, name func(T) string, target string) (T, bool) {
	var zero T
	lowered := strings.ToLower(target)

	for _, item := range items {
		if strings.EqualFold(name(item), target) {
			return item, true
		}
	}

	var match T
	count := 0
	for _, item := range items {
		if containsFold(name(item), lowered) {
			match = item
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return zero, false
}

// narrow settles a set of tied candidates. One candidate wins outright;
// otherwise the subset accepted by prefer wins if it has exactly one
// member; otherwise every candidate is reported as ambiguous.
func narrow(candidates []home.Service, prefer func(home.Service) bool) Result {
	if len(candidates) == 1 {
		return servicesResult(candidates)
	}

	var preferred []home.Service
	for _, svc := range candidates {
		if prefer(svc) {
			preferred = append(preferred, svc)
		}
	}
	if len(preferred) == 1 {
		return servicesResult(preferred)
	}

	return ambiguousResult(candidates)
}

// roomsMatching returns the ids of rooms whose name contains the
// lower-cased fragment.
func roomsMatching(snap *home.Snapshot, lowerFragment string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, room := range snap.Rooms() {
		if containsFold(room.Name, lowerFragment) {
			ids[room.ID] = struct{}{}
		}
	}
	return ids
}

// servicesWhere filters the snapshot's services in canonical order.
func servicesWhere(snap *home.Snapshot, keep func(home.Service) bool) []home.Service {
	var out []home.Service
	for _, svc := range snap.Services() {
		if keep(svc) {
			out = append(out, svc)
		}
	}
	return out
}

// inRooms reports whether svc is assigned to one of the given rooms.
func inRooms(svc home.Service, rooms map[string]struct{}) bool {
	if svc.RoomID == nil {
		return false
	}
	_, ok := rooms[*svc.RoomID]
	return ok
}
