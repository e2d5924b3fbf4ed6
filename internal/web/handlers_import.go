package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cloudcollect/server/internal/ingest"
	"github.com/cloudcollect/server/internal/logging"
	mw "github.com/cloudcollect/server/internal/web/middleware"
)

// templateFilename is the download name for the import template workbook.
const templateFilename = "accounts_template.xlsx"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportResponse summarizes a bulk import. A non-empty Errors list does not
// mean the import failed: valid rows are always inserted, and each rejected
// row is reported with its row number and reason.
type ImportResponse struct {
	Imported int64             `json:"imported"`
	Failed   int               `json:"failed"`
	Total    int               `json:"total"`
	Errors   []ingest.RowError `json:"errors"`
}

// handleImport ingests an uploaded Excel workbook of debtor accounts.
//
// The request is a multipart form with the workbook under "file". Only a
// file that cannot be parsed at all fails the request; per-row problems
// come back in the response body alongside the inserted count.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())

	// Bound the number of imports parsing workbooks at once.
	if err := s.limiter.Acquire(r.Context()); err != nil {
		if errors.Is(err, ingest.ErrTooManyImports) {
			w.Header().Set("Retry-After", "30")
			s.respondError(w, r, err, http.StatusTooManyRequests)
			return
		}
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	defer s.limiter.Release()

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, errors.New("file too large or invalid form"), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logger := logging.WithFields(r.Context(),
		"company_id", companyID,
		"file", header.Filename,
		"size", header.Size,
	)
	start := time.Now()

	result, err := ingest.Parse(data)
	if err != nil {
		// Only a workbook the parser cannot open at all reaches here.
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var imported int64
	if len(result.Records) > 0 {
		imported, err = s.store.BulkInsertDebtors(r.Context(), companyID, result.Records)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
	}

	logger.Info("import completed",
		"imported", imported,
		"failed", len(result.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, ImportResponse{
		Imported: imported,
		Failed:   len(result.Errors),
		Total:    len(result.Records) + len(result.Errors),
		Errors:   result.Errors,
	})
}

// handleDownloadTemplate serves a template workbook whose headers match the
// importer's expected columns, pre-filled with example rows.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := ingest.Template()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+templateFilename+`"`)
	w.Write(data)
}

// handleImportQueueStatus reports the import limiter's occupancy.
func (s *Server) handleImportQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{
		"active":    s.limiter.ActiveCount(),
		"available": s.limiter.Available(),
	})
}
