package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/julienv/daygate/pkg/logger"
)

// AgentDescriptor is the machine-readable service card served from
// /.well-known/agent.json so that automated clients can discover the
// available operations and their prices.
type AgentDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	IconURL     string         `json:"iconUrl,omitempty"`
	Payments    bool           `json:"payments"`
	Currency    string         `json:"currency"`
	Endpoints   []EndpointInfo `json:"endpoints"`
}

// WellKnownHandler serves the agent descriptor and the service icon.
type WellKnownHandler struct {
	descriptor AgentDescriptor
	iconPath   string
	logger     *logger.Logger
}

func NewWellKnownHandler(desc AgentDescriptor, iconPath string, log *logger.Logger) *WellKnownHandler {
	return &WellKnownHandler{descriptor: desc, iconPath: iconPath, logger: log}
}

func (h *WellKnownHandler) Descriptor(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.descriptor); err != nil {
		h.logger.WithError(err).Error("Failed to write agent descriptor")
	}
}

func (h *WellKnownHandler) Icon(w http.ResponseWriter, r *http.Request) {
	if h.iconPath == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(h.iconPath); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, h.iconPath)
}
