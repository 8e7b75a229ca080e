package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zeeshan-nvmx/event-access-manager/internal/app"
	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
	"github.com/zeeshan-nvmx/event-access-manager/internal/timefmt"
)

// TokenResetter is the minimal interface needed for the administrative reset.
type TokenResetter interface {
	Reset(ctx context.Context, code string) (app.ResetResult, error)
}

// HandleReset returns the HTTP handler for returning a code to circulation.
func HandleReset(svc TokenResetter, format *timefmt.Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req resetRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, codeCodeRequired, domain.ErrCodeRequired.Error())
			return
		}

		res, err := svc.Reset(r.Context(), req.Code)
		if err != nil {
			if err == domain.ErrCodeRequired {
				writeError(w, http.StatusBadRequest, codeCodeRequired, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		if res.Outcome == app.ResetOutcomeNotFound {
			writeError(w, http.StatusNotFound, codeTokenNotFound, "code not found")
			return
		}

		resp := resetResponse{
			Outcome: string(res.Outcome),
			Message: "code has been reset and can be used to enter again",
			Record:  newTokenRecord(res.Token, format),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type resetRequest struct {
	Code string `json:"code"`
}

type resetResponse struct {
	Outcome string       `json:"outcome"`
	Message string       `json:"message"`
	Record  *tokenRecord `json:"record,omitempty"`
}
