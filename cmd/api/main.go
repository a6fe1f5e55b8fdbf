package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"team-insights-go/internal/config"
	"team-insights-go/internal/contextdocs"
	"team-insights-go/internal/dataset"
	"team-insights-go/internal/llm"
	"team-insights-go/internal/logger"
	"team-insights-go/internal/processor"
	"team-insights-go/internal/types"
)

const maxUploadBytes = 32 << 20

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "team-insights-go").Info("starting service")

	cfg := config.Load()
	log.WithField("ai_enabled", cfg.AIEnabled).
		WithField("fallback_enabled", cfg.FallbackEnabled).Info("engine configured")

	proc := processor.New(cfg, llm.NewClient(cfg))

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// analyze endpoint: multipart upload of one xlsx plus optional context
	// documents (inline text parts or document_url fields)
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")
		reqLog.Info("analyze request received")

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			reqLog.WithError(err).Warn("bad multipart payload")
			http.Error(w, "bad multipart payload", http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			reqLog.Warn("missing file part")
			http.Error(w, "missing file part", http.StatusBadRequest)
			return
		}
		defer file.Close()

		rows, columns, err := dataset.ParseRows(file)
		if err != nil {
			reqLog.WithError(err).Warn("spreadsheet decode failed")
			http.Error(w, fmt.Sprintf("spreadsheet decode failed: %v", err), http.StatusBadRequest)
			return
		}

		docs, err := collectDocuments(r)
		if err != nil {
			reqLog.WithError(err).Warn("context document ingestion failed")
			http.Error(w, fmt.Sprintf("context document ingestion failed: %v", err), http.StatusBadRequest)
			return
		}
		reqLog = reqLog.WithField("rows", len(rows)).WithField("documents", len(docs))

		start := time.Now()
		report, err := proc.ProcessBatch(r.Context(), rows, columns, docs)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("processor finished")
		if err != nil {
			writeAnalysisError(w, reqLog, err)
			return
		}
		writeJSON(w, reqLog, report)
	})

	// demo endpoint (process first N rows from a local dataset)
	mux.HandleFunc("/demo", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "demo")
		reqLog.Info("demo invoked")

		dataPath := envOr("DATASET_PATH", "team_ratings.xlsx")
		rows, columns, err := dataset.LoadRows(dataPath)
		if err != nil {
			reqLog.WithError(err).Error("dataset load error")
			http.Error(w, "dataset load error", http.StatusInternalServerError)
			return
		}
		limit := 5
		if len(rows) < limit {
			limit = len(rows)
		}
		report, err := proc.ProcessBatch(r.Context(), rows[:limit], columns, nil)
		if err != nil {
			writeAnalysisError(w, reqLog, err)
			return
		}
		writeJSON(w, reqLog, report)
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// collectDocuments gathers inline "document" parts and remote
// "document_url" references into bounded context documents.
func collectDocuments(r *http.Request) ([]types.ContextDocument, error) {
	var docs []types.ContextDocument

	if r.MultipartForm == nil {
		return nil, nil
	}
	for _, fh := range r.MultipartForm.File["document"] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open document %s: %w", fh.Filename, err)
		}
		text, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", fh.Filename, err)
		}
		docs = append(docs, contextdocs.NewDocument(fh.Filename, string(text)))
	}
	for _, u := range r.MultipartForm.Value["document_url"] {
		doc, err := contextdocs.FetchDocument(u)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func writeAnalysisError(w http.ResponseWriter, reqLog *logrus.Entry, err error) {
	status := http.StatusInternalServerError
	var cfgErr *processor.ConfigurationError
	var failErr *processor.AnalysisFailed
	if errors.As(err, &cfgErr) || errors.As(err, &failErr) {
		status = http.StatusUnprocessableEntity
	}
	reqLog.WithField("error", err.Error()).Warn("analysis error")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, reqLog *logrus.Entry, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		reqLog.WithField("error", err.Error()).Error("failed to write response")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
