package resolver

import (
	"fmt"
	"strings"

	"github.com/nickustinov/homebar/internal/home"
)

// Kind tags the variant held by a Result.
type Kind int

// Result kinds.
const (
	// NotFound means no strategy could identify the target.
	NotFound Kind = iota
	// Services means one or more services were positively identified.
	Services
	// Scene means exactly one scene was identified.
	Scene
	// Ambiguous means two or more services tie and the caller must not act.
	Ambiguous
)

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Services:
		return "services"
	case Scene:
		return "scene"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of resolving one query.
//
// Services is set for Services and Ambiguous results, Scene for Scene
// results, and Query for NotFound results. For NotFound, Query carries the
// caller's original input, except for the "scene." and "group." forms where
// it carries the prefix plus the name that was searched for.
type Result struct {
	Kind     Kind
	Services []home.Service
	Scene    home.Scene
	Query    string
}

func servicesResult(services []home.Service) Result {
	return Result{Kind: Services, Services: services}
}

func sceneResult(scene home.Scene) Result {
	return Result{Kind: Scene, Scene: scene}
}

func ambiguousResult(services []home.Service) Result {
	return Result{Kind: Ambiguous, Services: services}
}

func notFound(query string) Result {
	return Result{Kind: NotFound, Query: query}
}

// Found reports whether the result identifies something the caller can act on.
func (r Result) Found() bool {
	return r.Kind == Services || r.Kind == Scene
}

// IDs returns the identifiers referenced by the result: service ids for
// Services and Ambiguous, the scene id for Scene, nothing for NotFound.
func (r Result) IDs() []string {
	switch r.Kind {
	case Services, Ambiguous:
		ids := make([]string, len(r.Services))
		for i, svc := range r.Services {
			ids[i] = svc.ID
		}
		return ids
	case Scene:
		return []string{r.Scene.ID}
	default:
		return nil
	}
}

// Equal reports whether two results are structurally equal, comparing
// entities by identifier.
func (r Result) Equal(other Result) bool {
	if r.Kind != other.Kind {
		return false
	}
	if r.Kind == NotFound {
		return r.Query == other.Query
	}
	a, b := r.IDs(), other.IDs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String renders the result for logs and CLI output.
func (r Result) String() string {
	switch r.Kind {
	case Services, Ambiguous:
		names := make([]string, len(r.Services))
		for i, svc := range r.Services {
			names[i] = svc.Name
		}
		return fmt.Sprintf("%s[%s]", r.Kind, strings.Join(names, ", "))
	case Scene:
		return fmt.Sprintf("scene[%s]", r.Scene.Name)
	default:
		return fmt.Sprintf("not_found[%s]", r.Query)
	}
}
