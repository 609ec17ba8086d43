package resolver

import (
	"strings"

	"github.com/nickustinov/homebar/internal/group"
	"github.com/nickustinov/homebar/internal/home"
)

// request carries one query through the strategy chain.
type request struct {
	raw     string // caller input, untouched
	text    string // trimmed
	lowered string // trimmed and case-folded
	snap    *home.Snapshot
	groups  []group.Group
}

// strategy inspects a request and either returns a verdict (ok == true) or
// declines so the next strategy runs.
type strategy func(req *request) (Result, bool)

// chain lists the strategies in precedence order.
var chain = []strategy{
	byIdentifier,
	byScene,
	byRoomGroup,
	byGlobalGroup,
	byTypeAndRoom,
	byWildcard,
	byExactName,
	byRoomAndDevice,
	byFuzzyName,
}

// Resolve identifies what query refers to within snap and groups.
//
// A nil snapshot is treated as empty. An empty or all-whitespace query
// yields NotFound carrying the original input.
func Resolve(query string, snap *home.Snapshot, groups []group.Group) Result {
	text := strings.TrimSpace(query)
	if text == "" {
		return notFound(query)
	}

	req := &request{
		raw:     query,
		text:    text,
		lowered: strings.ToLower(text),
		snap:    snap,
		groups:  groups,
	}

	for _, try := range chain {
		if result, ok := try(req); ok {
			return result
		}
	}

	return notFound(query)
}
