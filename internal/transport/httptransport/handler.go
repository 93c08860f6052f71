package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/app"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/transport/extractdto"
)

type Handler struct {
	svc      app.ExtractService
	maxBytes int64
}

// NewHandler serves /extract. Request bodies above maxBytes are rejected;
// maxBytes <= 0 disables the limit.
func NewHandler(svc app.ExtractService, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := r.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	var in extractdto.ExtractRequest
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "request too large", "details": err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	out, err := h.svc.Extract(r.Context(), in.App())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, extractdto.ErrorBody("extract failed", err, out))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
