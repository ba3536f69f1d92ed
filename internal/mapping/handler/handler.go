package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"keyword-mapping-service/internal/config"
	"keyword-mapping-service/internal/fileio"
	"keyword-mapping-service/internal/mapping/model"
	"keyword-mapping-service/internal/mapping/service"
	"keyword-mapping-service/internal/metrics"
)

// userError carries a message meant for the person who submitted the form.
type userError struct {
	status int
	msg    string
}

func (e *userError) Error() string { return e.msg }

func badInput(format string, args ...any) error {
	return &userError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// Map returns the handler for POST /map: parse both uploads, build the
// keyword index, run the engine, respond with the augmented table as JSON.
func Map(cfg config.Config, logger zerolog.Logger, cache *fileio.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(logger, r)

		res, err := process(r.Context(), r, cfg, cache, log)
		if err != nil {
			writeError(w, log, err)
			return
		}
		metrics.RecordRun("ok")
		metrics.ObserveMapping(time.Since(start).Seconds())

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("records", res.Records).
			Int("matched", res.Matched).
			Dur("elapsed", time.Since(start)).
			Msg("mapping done")
	}
}

// Export returns the handler for POST /map/export: same pipeline as Map,
// but the result comes back as a downloadable file. ?format=csv|xlsx|json,
// default xlsx.
func Export(cfg config.Config, logger zerolog.Logger, cache *fileio.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(logger, r)

		format := r.URL.Query().Get("format")
		if format == "" {
			format = "xlsx"
		}
		switch format {
		case "csv", "xlsx", "json":
		default:
			writeError(w, log, badInput("unsupported export format: %s", format))
			return
		}

		res, err := process(r.Context(), r, cfg, cache, log)
		if err != nil {
			writeError(w, log, err)
			return
		}
		metrics.RecordRun("ok")
		metrics.ObserveMapping(time.Since(start).Seconds())

		var buf bytes.Buffer
		out := &fileio.Table{Headers: res.Columns, Rows: res.Rows}
		if err := fileio.WriteAny(&buf, out, format); err != nil {
			log.Error().Err(err).Str("format", format).Msg("export encode")
			http.Error(w, "failed to build export file", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("keyword_mapping_%s.%s", time.Now().Format("2006_01_02_15_04"), format)
		w.Header().Set("Content-Type", fileio.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Error().Err(err).Msg("write export")
			return
		}

		log.Info().
			Int("records", res.Records).
			Str("format", format).
			Str("filename", filename).
			Dur("elapsed", time.Since(start)).
			Msg("export done")
	}
}

// process runs the whole pass: uploads → index → engine → result table.
func process(ctx context.Context, r *http.Request, cfg config.Config, cache *fileio.Cache, log zerolog.Logger) (*model.Result, error) {
	defer r.Body.Close()
	if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
		metrics.RecordRun("bad_input")
		return nil, badInput("bad multipart form: %v", err)
	}

	m := model.Mapping{
		DescColumns: splitSelection(r.FormValue("desc_columns")),
		KeyColumns:  splitSelection(r.FormValue("key_columns")),
		ProdColumns: splitSelection(r.FormValue("prod_columns")),
		DescHeader:  atoi(r.FormValue("desc_header_row"), 1),
		KeyHeader:   atoi(r.FormValue("key_header_row"), 1),
	}
	opts := model.Options{
		CaseInsensitive: toBool(r.FormValue("case_insensitive"), false),
		WordBoundary:    toBool(r.FormValue("word_boundary"), false),
	}

	if len(m.DescColumns) == 0 {
		metrics.RecordRun("bad_input")
		return nil, badInput("select at least one description column")
	}

	desc, err := readUpload(r, "description_file", m.DescHeader, cache)
	if errors.Is(err, http.ErrMissingFile) {
		metrics.RecordRun("bad_input")
		return nil, badInput("missing description_file")
	}
	if err != nil {
		metrics.RecordRun("parse_error")
		metrics.RecordParseFailure("description")
		return nil, err
	}
	descCols, err := resolveColumns(desc.Headers, m.DescColumns)
	if err != nil {
		metrics.RecordRun("bad_input")
		return nil, badInput("description file: %v", err)
	}

	ix, err := buildIndex(r, m, opts, cache)
	if err != nil {
		return nil, err
	}
	ix.Build()

	records := make([]model.Record, len(desc.Rows))
	concat := make([]string, len(desc.Rows))
	for i, row := range desc.Rows {
		concat[i] = concatColumns(row, descCols)
		records[i] = model.Record{Text: concat[i]}
	}

	progress := progressLogger(log, len(records))
	rows := service.Run(ctx, records, ix, cfg.MapWorkers, progress)
	metrics.RecordRecords(len(records))

	return assemble(desc, concat, rows, opts, m), nil
}

// buildIndex picks the keyword source: an uploaded keyword table wins over
// the manual comma-separated entry.
func buildIndex(r *http.Request, m model.Mapping, opts model.Options, cache *fileio.Cache) (*service.Index, error) {
	key, err := readUpload(r, "keyword_file", m.KeyHeader, cache)
	switch {
	case err == nil:
		if len(m.KeyColumns) == 0 {
			metrics.RecordRun("bad_input")
			return nil, badInput("select at least one keyword column")
		}
		keyCols, err := resolveColumns(key.Headers, m.KeyColumns)
		if err != nil {
			metrics.RecordRun("bad_input")
			return nil, badInput("keyword file: %v", err)
		}
		prodCols, err := resolveColumns(key.Headers, m.ProdColumns)
		if err != nil {
			metrics.RecordRun("bad_input")
			return nil, badInput("keyword file: %v", err)
		}
		return buildIndexFromTable(key, keyCols, prodCols, opts), nil

	case errors.Is(err, http.ErrMissingFile):
		if manual := r.FormValue("manual_keywords"); manual != "" {
			return buildIndexFromManual(manual, opts), nil
		}
		metrics.RecordRun("bad_input")
		return nil, badInput("provide a keyword file or manual keywords")

	default:
		metrics.RecordRun("parse_error")
		metrics.RecordParseFailure("keyword")
		return nil, err
	}
}

// assemble appends the derived columns to the original rows.
func assemble(desc *fileio.Table, concat []string, rows []model.ResultRow, opts model.Options, m model.Mapping) *model.Result {
	derived := map[string]bool{
		model.ColConcatenated: true,
		model.ColKeyword:      true,
		model.ColProduct:      true,
	}
	columns := make([]string, 0, len(desc.Headers)+3)
	for _, h := range desc.Headers {
		if !derived[h] {
			columns = append(columns, h)
		}
	}
	columns = append(columns, model.ColConcatenated, model.ColKeyword, model.ColProduct)

	out := make([]map[string]string, len(desc.Rows))
	matched := 0
	for i, row := range desc.Rows {
		rec := make(map[string]string, len(row)+3)
		for k, v := range row {
			rec[k] = v
		}
		rec[model.ColConcatenated] = concat[i]
		rec[model.ColKeyword] = rows[i].Keywords
		rec[model.ColProduct] = rows[i].Products
		if rows[i].Keywords != "-" {
			matched++
		}
		out[i] = rec
	}

	return &model.Result{
		Columns: columns,
		Rows:    out,
		Records: len(out),
		Matched: matched,
		Opts:    opts,
		Map:     m,
	}
}

// readUpload pulls one multipart file and parses it through the cache.
func readUpload(r *http.Request, field string, headerRow int, cache *fileio.Cache) (*fileio.Table, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, badInput("failed to read %s: %v", field, err)
	}
	t, err := cache.GetOrParse(content, hdr.Filename, headerRow)
	if err != nil {
		return nil, badInput("failed to read %s: %v", hdr.Filename, err)
	}
	return t, nil
}

func requestLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

// progressLogger reports roughly every 10% of the pass at debug level.
func progressLogger(log zerolog.Logger, total int) service.Progress {
	if total < 10 {
		return nil
	}
	step := total / 10
	return func(done, total int) {
		if done%step == 0 || done == total {
			log.Debug().Int("done", done).Int("total", total).Msg("mapping progress")
		}
	}
}

func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var ue *userError
	if errors.As(err, &ue) {
		log.Warn().Str("reason", ue.msg).Msg("mapping rejected")
		http.Error(w, ue.msg, ue.status)
		return
	}
	log.Error().Err(err).Msg("mapping failed")
	http.Error(w, err.Error(), http.StatusBadRequest)
}
