package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carson-networks/wallet-server/internal/logging"
)

type sessionReporter interface {
	OwnerID() string
}

type Response struct {
	Status  string `json:"status"`
	Session string `json:"session"`
	OwnerID string `json:"ownerID,omitempty"`
}

type Handler struct {
	Session sessionReporter
}

func NewHandler(session sessionReporter) Handler {
	return Handler{Session: session}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	resp := Response{Status: "ok", Session: "none"}
	if ownerID := h.Session.OwnerID(); ownerID != "" {
		resp.Session = "active"
		resp.OwnerID = ownerID
	}
	logData.AddData("session", resp.Session)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp)
}
