package main

import (
	"TopSpectra/internal/config"
	"TopSpectra/internal/query"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Find the first enabled ClickHouse writer config
	var chCfg *config.ClickHouseConfig
	for _, writerDef := range cfg.Aggregator.Rank.Writers {
		if writerDef.Enabled && writerDef.Type == "clickhouse" {
			chCfg = &writerDef.ClickHouse
			break
		}
	}

	if chCfg == nil {
		log.Fatalf("No enabled ClickHouse writer found in config. API server cannot start.")
	}

	// Initialize querier with the found config
	querier, err := query.NewClickHouseQuerier(*chCfg)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	// Initialize router
	r := mux.NewRouter()

	// Create API handler with querier dependency
	apiHandler := &APIHandler{querier: querier}

	// Define API routes
	r.HandleFunc("/api/v1/rankings", apiHandler.rankingsHandler).Methods("POST")
	r.HandleFunc("/api/v1/tasks/summary", apiHandler.taskSummaryHandler).Methods("POST")

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// rankingsRequest is the JSON body accepted by the rankings endpoint.
type rankingsRequest struct {
	TaskName string `json:"task_name"`
	Group    string `json:"group"`
	EndTime  string `json:"end_time"` // RFC3339, optional
	Limit    int    `json:"limit"`
}

// summaryRequest is the JSON body accepted by the task summary endpoint.
type summaryRequest struct {
	EndTime string `json:"end_time"` // RFC3339, optional
}

// rankingsHandler serves persisted top-K rankings.
func (h *APIHandler) rankingsHandler(w http.ResponseWriter, r *http.Request) {
	var req rankingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	endTime, err := parseEndTime(req.EndTime)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid end_time: %v", err), http.StatusBadRequest)
		return
	}

	rows, err := h.querier.Rankings(r.Context(), query.RankingQuery{
		TaskName: req.TaskName,
		Group:    req.Group,
		EndTime:  endTime,
		Limit:    req.Limit,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query rankings: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, rows)
}

// taskSummaryHandler serves per-task summaries of the persisted rankings.
func (h *APIHandler) taskSummaryHandler(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	endTime, err := parseEndTime(req.EndTime)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid end_time: %v", err), http.StatusBadRequest)
		return
	}

	summaries, err := h.querier.SummarizeTasks(r.Context(), endTime)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to query summaries: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, summaries)
}

func parseEndTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}
