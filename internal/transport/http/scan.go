package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zeeshan-nvmx/event-access-manager/internal/app"
	"github.com/zeeshan-nvmx/event-access-manager/internal/domain"
	"github.com/zeeshan-nvmx/event-access-manager/internal/timefmt"
)

// TokenScanner is the minimal interface needed to redeem a code.
type TokenScanner interface {
	Scan(ctx context.Context, code string) (app.ScanResult, error)
}

// HandleScan returns the HTTP handler for the checkpoint scan.
func HandleScan(svc TokenScanner, format *timefmt.Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req scanRequest
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

		res, err := svc.Scan(r.Context(), req.Code)
		if err != nil {
			if err == domain.ErrCodeRequired {
				writeError(w, http.StatusBadRequest, codeCodeRequired, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := scanResponse{
			Outcome: string(res.Outcome),
			Message: scanMessage(res.Outcome),
			Record:  newTokenRecord(res.Token, format),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type scanRequest struct {
	Code string `json:"code"`
}

type scanResponse struct {
	Outcome string       `json:"outcome"`
	Message string       `json:"message"`
	Record  *tokenRecord `json:"record,omitempty"`
}

func scanMessage(outcome app.ScanOutcome) string {
	switch outcome {
	case app.ScanOutcomeGranted:
		return "access granted, enjoy"
	case app.ScanOutcomeAlreadyUsed:
		return "code already used"
	default:
		return "invalid code"
	}
}
