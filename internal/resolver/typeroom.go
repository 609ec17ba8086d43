package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/home"
)

// isWildcard reports whether one side of a "<a>.<b>" query means "any".
func isWildcard(part string) bool {
	return part == "*" || strings.EqualFold(part, "all")
}

// splitDotted splits on the first '.' and trims both sides.
func splitDotted(text string) (left, right string, ok bool) {
	left, right, ok = strings.Cut(text, ".")
	if !ok {
		return "", "", false
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// byTypeAndRoom handles "<type>.<room>", e.g. "light.bedroom". Once the
// type word is recognised the verdict is final: no matching room, or no
// services of that type in the matched rooms, is NotFound.
func byTypeAndRoom(req *request) (Result, bool) {
	typePart, roomPart, ok := splitDotted(req.text)
	if !ok || isWildcard(typePart) || isWildcard(roomPart) {
		return Result{}, false
	}

	serviceType, ok := lookupType(typePart)
	if !ok {
		return Result{}, false
	}

	rooms := roomsMatching(req.snap, strings.ToLower(roomPart))
	if len(rooms) == 0 {
		return notFound(req.raw), true
	}

	services := servicesWhere(req.snap, func(svc home.Service) bool {
		return svc.Type == serviceType && inRooms(svc, rooms)
	})
	if len(services) == 0 {
		return notFound(req.raw), true
	}
	return servicesResult(services), true
}

// byWildcard handles "all <type>", "<room>.*", "<room>.all", "*.<type>"
// and "all.<type>". It never reports NotFound itself, so free text that
// happens to contain "all" still reaches the name strategies.
func byWildcard(req *request) (Result, bool) {
	if rest, ok := strings.CutPrefix(req.lowered, "all "); ok {
		return nonEmpty(servicesOfType(req.snap, rest))
	}

	left, right, ok := splitDotted(req.text)
	if !ok {
		return Result{}, false
	}

	switch {
	case isWildcard(left) && isWildcard(right):
		return Result{}, false
	case isWildcard(right):
		if services := servicesInRooms(req.snap, left); len(services) > 0 {
			return servicesResult(services), true
		}
		return nonEmpty(servicesOfType(req.snap, left))
	case isWildcard(left):
		if services := servicesOfType(req.snap, right); len(services) > 0 {
			return servicesResult(services), true
		}
		return nonEmpty(servicesInRooms(req.snap, right))
	default:
		return Result{}, false
	}
}

func servicesOfType(snap *home.Snapshot, word string) []home.Service {
	serviceType, ok := lookupType(word)
	if !ok {
		return nil
	}
	return servicesWhere(snap, func(svc home.Service) bool {
		return svc.Type == serviceType
	})
}

func servicesInRooms(snap *home.Snapshot, roomFragment string) []home.Service {
	rooms := roomsMatching(snap, strings.ToLower(roomFragment))
	if len(rooms) == 0 {
		return nil
	}
	return servicesWhere(snap, func(svc home.Service) bool {
		return inRooms(svc, rooms)
	})
}

func nonEmpty(services []home.Service) (Result, bool) {
	if len(services) == 0 {
		return Result{}, false
	}
	return servicesResult(services), true
}
