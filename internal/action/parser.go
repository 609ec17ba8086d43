package action

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// URLScheme is the scheme handled by ParseURL.
const URLScheme = "itsyhome"

// Value ranges for value-bearing commands.
const (
	minPercent     = 0
	maxPercent     = 100
	minTemperature = 10
	maxTemperature = 38
)

// ParseURL parses "itsyhome://<command>/<value?>/<target...>".
func ParseURL(raw string) (Request, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrUnknownAction, err)
	}
	if !strings.EqualFold(u.Scheme, URLScheme) {
		return Request{}, fmt.Errorf("%w: unsupported scheme %q", ErrUnknownAction, u.Scheme)
	}

	// With "scheme://toggle/Office/Lamp" the command lands in the host part.
	path := u.Host + u.EscapedPath()
	return ParsePath(path)
}

// ParsePath parses "<command>/<value?>/<target...>". Each segment is
// percent-decoded separately, so "Living%20Room/Lamp" names room "Living
// Room", while "%2F" inside a segment decodes to a literal "/" in the
// target. The command is case-insensitive. For the scene command the target
// gains a "scene." prefix when it does not already have one.
func ParsePath(path string) (Request, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return Request{}, fmt.Errorf("%w: empty path", ErrUnknownAction)
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %q is not valid percent-encoding", ErrUnknownAction, seg)
		}
		segments[i] = decoded
	}

	cmd, ok := lookupCommand(segments[0])
	if !ok {
		return Request{}, fmt.Errorf("%w: %s", ErrUnknownAction, segments[0])
	}
	req := Request{Command: cmd}
	rest := segments[1:]

	if cmd.TakesValue() {
		if len(rest) == 0 || strings.TrimSpace(rest[0]) == "" {
			return Request{}, fmt.Errorf("%w: %s needs a value", ErrInvalidValue, cmd)
		}
		value, err := parseValue(cmd, rest[0])
		if err != nil {
			return Request{}, err
		}
		req.Value = value
		rest = rest[1:]
	}

	req.Target = strings.TrimSpace(strings.Join(rest, "/"))
	if req.Target == "" {
		return Request{}, fmt.Errorf("%w: %s", ErrMissingTarget, cmd)
	}

	if cmd == CommandScene && !hasScenePrefix(req.Target) {
		req.Target = "scene." + req.Target
	}

	return req, nil
}

func lookupCommand(word string) (Command, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	for _, cmd := range AllCommands() {
		if string(cmd) == word {
			return cmd, true
		}
	}
	return "", false
}

func parseValue(cmd Command, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
	}

	lo, hi := float64(minPercent), float64(maxPercent)
	if cmd == CommandTemp {
		lo, hi = minTemperature, maxTemperature
	}
	if value < lo || value > hi {
		return 0, fmt.Errorf("%w: %s must be between %g and %g", ErrInvalidValue, cmd, lo, hi)
	}

	if cmd != CommandTemp {
		value = math.Round(value)
	}
	return value, nil
}

func hasScenePrefix(target string) bool {
	return len(target) >= len("scene.") && strings.EqualFold(target[:len("scene.")], "scene.")
}
