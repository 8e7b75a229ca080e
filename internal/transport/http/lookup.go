package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
	"github.com/zeeshan-nvmx/event-access-manager/internal/timefmt"
)

// TokenFinder looks up a single token for audit display.
type TokenFinder interface {
	FindBySequence(ctx context.Context, sequence int64) (domain.Token, error)
}

// HandleLookup returns the HTTP handler for the read-only sequence lookup.
func HandleLookup(repo TokenFinder, format *timefmt.Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		sequence, ok := parseLookupPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusBadRequest, codeInvalidSequence, "invalid sequence number")
			return
		}

		token, err := repo.FindBySequence(r.Context(), sequence)
		if err != nil {
			if err == domain.ErrTokenNotFound {
				writeError(w, http.StatusNotFound, codeTokenNotFound, "code not found")
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := lookupResponse{Record: newTokenRecord(&token, format)}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type lookupResponse struct {
	Record *tokenRecord `json:"record"`
}

func parseLookupPath(path string) (int64, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "api" || parts[1] != "codes" {
		return 0, false
	}
	sequence, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || sequence <= 0 {
		return 0, false
	}
	return sequence, true
}
