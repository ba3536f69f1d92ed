package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"keyword-mapping-service/internal/config"
	"keyword-mapping-service/internal/fileio"
	"keyword-mapping-service/internal/metrics"
)

type previewResponse struct {
	Headers   []string            `json:"headers"`
	Rows      []map[string]string `json:"rows"`
	TotalRows int                 `json:"totalRows"`
	Truncated bool                `json:"truncated"`
}

// Preview returns the handler for POST /preview: parse one upload and
// return its headers plus the first PreviewRows rows, so a client can
// offer column pickers before running the mapping.
func Preview(cfg config.Config, logger zerolog.Logger, cache *fileio.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, log, badInput("bad multipart form: %v", err))
			return
		}

		headerRow := atoi(r.FormValue("header_row"), 1)
		t, err := readUpload(r, "file", headerRow, cache)
		if errors.Is(err, http.ErrMissingFile) {
			writeError(w, log, badInput("missing file"))
			return
		}
		if err != nil {
			metrics.RecordParseFailure("preview")
			writeError(w, log, err)
			return
		}

		resp := previewResponse{
			Headers:   t.Headers,
			Rows:      t.Rows,
			TotalRows: len(t.Rows),
		}
		if cfg.PreviewRows > 0 && len(resp.Rows) > cfg.PreviewRows {
			resp.Rows = resp.Rows[:cfg.PreviewRows]
			resp.Truncated = true
		}
		if resp.Rows == nil {
			resp.Rows = []map[string]string{}
		}
		if resp.Headers == nil {
			resp.Headers = []string{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Error().Err(err).Msg("write json")
		}
	}
}
