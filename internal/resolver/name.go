package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/home"
)

// roomDeviceSeparators are tried in order by byRoomAndDevice.
var roomDeviceSeparators = []string{"/", " "}

// byExactName matches the whole query against service names. Several
// services sharing the name are ambiguous.
func byExactName(req *request) (Result, bool) {
	matches := servicesWhere(req.snap, func(svc home.Service) bool {
		return strings.EqualFold(svc.Name, req.text)
	})

	switch len(matches) {
	case 0:
		return Result{}, false
	case 1:
		return servicesResult(matches), true
	default:
		return ambiguousResult(matches), true
	}
}

// byRoomAndDevice handles "<room>/<device>" and "<room> <device>". Room and
// device both match by substring; among several candidates an exact device
// name is preferred. A separator that yields nothing passes to the next
// one, and when none match the fuzzy strategy still runs.
func byRoomAndDevice(req *request) (Result, bool) {
	for _, sep := range roomDeviceSeparators {
		roomPart, devicePart, ok := strings.Cut(req.lowered, sep)
		if !ok {
			continue
		}
		roomPart, devicePart = strings.TrimSpace(roomPart), strings.TrimSpace(devicePart)
		if roomPart == "" || devicePart == "" {
			continue
		}

		rooms := roomsMatching(req.snap, roomPart)
		if len(rooms) == 0 {
			continue
		}

		candidates := servicesWhere(req.snap, func(svc home.Service) bool {
			return inRooms(svc, rooms) && containsFold(svc.Name, devicePart)
		})
		if len(candidates) == 0 {
			continue
		}

		return narrow(candidates, func(svc home.Service) bool {
			return strings.ToLower(svc.Name) == devicePart
		}), true
	}

	return Result{}, false
}

// byFuzzyName is the last resort: a substring match anywhere in the home.
// Several matches narrow to the one whose name starts with the query, if
// there is exactly one.
func byFuzzyName(req *request) (Result, bool) {
	matches := servicesWhere(req.snap, func(svc home.Service) bool {
		return containsFold(svc.Name, req.lowered)
	})
	if len(matches) == 0 {
		return notFound(req.raw), true
	}

	return narrow(matches, func(svc home.Service) bool {
		return strings.HasPrefix(strings.ToLower(svc.Name), req.lowered)
	}), true
}
