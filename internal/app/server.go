package app

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"toolgate/internal/domain"
)

const defaultListenAddr = "127.0.0.1:8780"

type searchResponse struct {
	Query   string                  `json:"query"`
	Matches []domain.ToolDefinition `json:"matches"`
}

type toolsResponse struct {
	Tools []domain.ToolDefinition `json:"tools"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// serveAPI exposes the ranking surface over HTTP:
//
//	GET /v1/search?q=...&topK=N
//	GET /v1/tools?names=a,b,c
//	GET /v1/catalog
func (a *Application) serveAPI(ctx context.Context) error {
	addr := a.cfg.ListenAddr
	if addr == "" {
		addr = defaultListenAddr
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/search", a.handleSearch)
	mux.HandleFunc("GET /v1/tools", a.handleTools)
	mux.HandleFunc("GET /v1/catalog", a.handleCatalog)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("api server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (a *Application) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
		return
	}

	snap := a.current()
	topK := snap.catalog.Options.TopK
	if raw := r.URL.Query().Get("topK"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "topK must be a positive integer"})
			return
		}
		topK = parsed
	}

	names := snap.index.Search(query, topK)
	matches, err := snap.index.Tools(names)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if matches == nil {
		matches = []domain.ToolDefinition{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Matches: matches})
}

func (a *Application) handleTools(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("names")
	if raw == "" {
		writeJSON(w, http.StatusOK, toolsResponse{Tools: a.Catalog().Tools})
		return
	}

	names := strings.Split(raw, ",")
	tools, err := a.Tools(names)
	if err != nil {
		status := http.StatusInternalServerError
		if code, ok := domain.CodeFrom(err); ok && code == domain.CodeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toolsResponse{Tools: tools})
}

func (a *Application) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := a.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"tools":           cat.Tools,
		"topK":            cat.Options.TopK,
		"alwaysAvailable": cat.Options.AlwaysAvailable,
		"maxSearchRounds": cat.Options.MaxSearchRounds,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
