package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"prestige-rentals/internal/checkin"
	"prestige-rentals/internal/logger"
)

// Uploaded scans top out well under this; anything larger is not a QR photo.
const maxUploadBytes = 10 << 20

type Handler struct {
	Checkin *checkin.Service
	Logger  *logger.Logger
}

// ValidateQRCode accepts a multipart upload under the "image" field and
// answers with the validation verdict. The endpoint always returns 200 with
// a result body; only malformed uploads get an error status.
func (h *Handler) ValidateQRCode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Expected multipart form upload", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ValidateQRCode: failed to read upload: %v", err))
		http.Error(w, "Failed to read uploaded image", http.StatusBadRequest)
		return
	}

	result := h.Checkin.ValidateQRCode(imageBytes)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ValidateQRCode: failed to encode response: %v", err))
	}
}
