package webhook

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nickustinov/homebar/internal/action"
)

// handleCommand parses "/<action>/<value?>/<target...>" and executes it.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.engine == nil {
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}
	if !s.pro {
		writeError(w, http.StatusForbidden, msgProRequired)
		return
	}

	path := strings.TrimPrefix(r.URL.EscapedPath(), "/")
	if path == "" {
		writeError(w, http.StatusBadRequest, msgEmptyPath)
		return
	}

	req, err := action.ParsePath(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, parseErrorMessage(path, err))
		return
	}

	out := s.engine.Execute(r.Context(), req)
	switch out.Status {
	case action.StatusSuccess:
		writeJSON(w, http.StatusOK, Response{Status: action.StatusSuccess})
	case action.StatusPartial:
		writeJSON(w, http.StatusOK, Response{Status: action.StatusPartial, Message: out.Message()})
	default:
		status := http.StatusBadRequest
		if out.Err != nil && out.Err.IsNotFound() {
			status = http.StatusNotFound
		}
		writeError(w, status, out.Message())
	}
}

// parseErrorMessage renders a parse failure for the caller. Unknown actions
// echo the decoded path; other failures describe the bad segment.
func parseErrorMessage(path string, err error) string {
	if errors.Is(err, action.ErrUnknownAction) {
		display, uerr := url.PathUnescape(path)
		if uerr != nil {
			display = path
		}
		return "Unknown action: " + display
	}
	return capitalize(strings.TrimPrefix(err.Error(), "action: "))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
