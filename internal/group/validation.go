package group

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxNameLength = 100

// Validate checks a group before it is persisted and normalises it in place:
// the name is trimmed and duplicate or blank member IDs are removed.
func Validate(g *Group) error {
	if g == nil {
		return ErrInvalidGroup
	}

	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGroup)
	}
	if len(g.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidGroup, maxNameLength)
	}

	if g.RoomID != nil && strings.TrimSpace(*g.RoomID) == "" {
		g.RoomID = nil
	}

	g.DeviceIDs = dedupeOrdered(g.DeviceIDs)
	return nil
}

// GenerateID creates a new unique group identifier.
func GenerateID() string {
	return uuid.New().String()
}

// dedupeOrdered removes blank and duplicate values while preserving order.
func dedupeOrdered(values []string) []string {
	unique := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}
