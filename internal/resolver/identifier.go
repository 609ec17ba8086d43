package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/home"
)

// looksLikeIdentifier reports whether s has the shape of a platform
// identifier: at least one '-' and nothing but hex digits and '-'.
func looksLikeIdentifier(s string) bool {
	if !strings.Contains(s, "-") {
		return false
	}
	for _, r := range s {
		switch {
		case r == '-':
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// byIdentifier matches service ids, then scene ids. An identifier-shaped
// query that matches nothing falls through.
func byIdentifier(req *request) (Result, bool) {
	if !looksLikeIdentifier(req.text) {
		return Result{}, false
	}

	if svc, ok := req.snap.Service(req.text); ok {
		return servicesResult([]home.Service{svc}), true
	}

	for _, scene := range req.snap.Scenes() {
		if strings.EqualFold(scene.ID, req.text) {
			return sceneResult(scene), true
		}
	}

	return Result{}, false
}
