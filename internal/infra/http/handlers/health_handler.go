package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type QueueStatus interface {
	Healthy() bool
}

type HealthHandler struct {
	Store           Pinger
	StoreDriver     string
	Queue           QueueStatus
	MSAdsConfigured bool
	StartTime       time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler takes a nil queue when publishing is disabled.
func NewHealthHandler(store Pinger, storeDriver string, queue QueueStatus, msadsConfigured bool) *HealthHandler {
	return &HealthHandler{
		Store:           store,
		StoreDriver:     storeDriver,
		Queue:           queue,
		MSAdsConfigured: msadsConfigured,
		StartTime:       time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// Check store
	storeKey := "store"
	if h.StoreDriver != "" {
		storeKey = "store:" + h.StoreDriver
	}
	if h.Store != nil {
		if err := h.Store.Ping(ctx); err != nil {
			deps[storeKey] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps[storeKey] = "healthy"
		}
	} else {
		deps[storeKey] = "not configured"
	}

	// Check RabbitMQ
	if h.Queue != nil {
		if !h.Queue.Healthy() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.MSAdsConfigured {
		deps["msads"] = "configured"
	} else {
		deps["msads"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}
