package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zeeshan-nvmx/event-access-manager/internal/app"
	"github.com/zeeshan-nvmx/event-access-manager/internal/export"
)

// Exporter produces the audit spreadsheet.
type Exporter interface {
	ExportAll(ctx context.Context) (app.ExportFile, error)
}

// HandleExport returns the HTTP handler for downloading the token report.
func HandleExport(svc Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		file, err := svc.ExportAll(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Name))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(file.Content)
	}
}
