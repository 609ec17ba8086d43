package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nickustinov/homebar/internal/group"
)

// maxGroupBodySize caps group request bodies.
const maxGroupBodySize = 64 << 10

// GroupStore manages the user-defined groups that "group.<Name>" targets
// resolve against. *group.Registry implements it.
type GroupStore interface {
	List() []group.Group
	Get(id string) (group.Group, error)
	Create(ctx context.Context, g *group.Group) error
	Update(ctx context.Context, g *group.Group) error
	Delete(ctx context.Context, id string) error
}

// groupRoutes mounts the group management endpoints.
func (s *Server) groupRoutes(r chi.Router) {
	r.Use(s.groupGateMiddleware)
	r.Use(s.rateLimitMiddleware)

	r.Get("/", s.handleListGroups)
	r.Post("/", s.handleCreateGroup)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGroup)
		r.Patch("/", s.handleUpdateGroup)
		r.Delete("/", s.handleDeleteGroup)
		r.Put("/members", s.handleSetGroupMembers)
	})
}

// groupGateMiddleware applies the same configuration and licence checks as
// commands, and bounds the request body.
func (s *Server) groupGateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.groups == nil {
			writeError(w, http.StatusInternalServerError, msgNotConfigured)
			return
		}
		if !s.pro {
			writeError(w, http.StatusForbidden, msgProRequired)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxGroupBodySize)
		next.ServeHTTP(w, r)
	})
}

// handleListGroups returns all groups in display order.
func (s *Server) handleListGroups(w http.ResponseWriter, _ *http.Request) {
	groups := s.groups.List()
	if groups == nil {
		groups = []group.Group{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"count":  len(groups),
	})
}

// handleCreateGroup creates a new group.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var g group.Group
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := s.groups.Create(r.Context(), &g); err != nil {
		s.writeGroupError(w, "creating group", err)
		return
	}

	writeJSON(w, http.StatusCreated, g)
}

// handleGetGroup returns a single group by ID.
func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.groups.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeGroupError(w, "getting group", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleUpdateGroup applies a partial update to a group. Fields absent from
// the body are left unchanged; "room_id": null clears the room.
func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.groups.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeGroupError(w, "getting group for update", err)
		return
	}

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if raw, ok := patch["name"]; ok {
		if err := json.Unmarshal(raw, &g.Name); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid name")
			return
		}
	}
	if raw, ok := patch["room_id"]; ok {
		var roomID *string
		if err := json.Unmarshal(raw, &roomID); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid room_id")
			return
		}
		g.RoomID = roomID
	}
	if raw, ok := patch["device_ids"]; ok {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid device_ids")
			return
		}
		g.DeviceIDs = ids
	}
	if raw, ok := patch["sort_order"]; ok {
		if err := json.Unmarshal(raw, &g.SortOrder); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid sort_order")
			return
		}
	}

	if err := s.groups.Update(r.Context(), &g); err != nil {
		s.writeGroupError(w, "updating group", err)
		return
	}

	s.writeStoredGroup(w, g.ID)
}

// handleSetGroupMembers replaces a group's member list.
func (s *Server) handleSetGroupMembers(w http.ResponseWriter, r *http.Request) {
	g, err := s.groups.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeGroupError(w, "getting group for members", err)
		return
	}

	var body struct {
		DeviceIDs []string `json:"device_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	g.DeviceIDs = body.DeviceIDs
	if err := s.groups.Update(r.Context(), &g); err != nil {
		s.writeGroupError(w, "setting group members", err)
		return
	}

	s.writeStoredGroup(w, g.ID)
}

// handleDeleteGroup deletes a group by ID.
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeGroupError(w, "deleting group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeStoredGroup answers with the group as the registry now holds it, so
// normalised names and server timestamps are reflected.
func (s *Server) writeStoredGroup(w http.ResponseWriter, id string) {
	g, err := s.groups.Get(id)
	if err != nil {
		s.writeGroupError(w, "reloading group", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// writeGroupError maps group errors onto HTTP status codes.
func (s *Server) writeGroupError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, group.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "Group not found")
	case errors.Is(err, group.ErrGroupExists):
		writeError(w, http.StatusConflict, "Group already exists")
	case errors.Is(err, group.ErrInvalidGroup):
		writeError(w, http.StatusBadRequest, groupValidationMessage(err))
	default:
		s.logger.Error("group request failed", "operation", op, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// groupValidationMessage turns "group: invalid: name is required" into
// "Invalid: name is required".
func groupValidationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), "group: ")
	if msg == "" {
		return "Invalid group"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
