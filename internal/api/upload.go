package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/identity"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/protocol"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/uploads"
)

// uploadJSONRequest is the base64 variant of the upload endpoint, used by
// clients that cannot send multipart forms.
type uploadJSONRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"` // base64
}

// HandleUploadImage stores one ticket attachment per call. It accepts either
// a multipart form with an "image" field or a JSON body with base64 data.
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		JSON(w, http.StatusOK, &protocol.UploadResponse{
			Success: false,
			Error:   "attachment storage is not configured",
		})
		return
	}

	filename, contentType, data, err := readUpload(r)
	if err != nil {
		JSON(w, http.StatusOK, &protocol.UploadResponse{Success: false, Error: err.Error()})
		return
	}

	userID := identity.UserIDFromContext(r.Context())
	url, err := h.uploads.Put(r.Context(), userID, filename, contentType, data)
	if err != nil {
		slog.Warn("attachment upload failed", "user_id", userID, "file", filename, "error", err)
		JSON(w, http.StatusOK, &protocol.UploadResponse{Success: false, Error: err.Error()})
		return
	}

	JSON(w, http.StatusOK, &protocol.UploadResponse{Success: true, URL: url})
}

func readUpload(r *http.Request) (filename, contentType string, data []byte, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(uploads.MaxImageSize + 1024); err != nil {
			return "", "", nil, err
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return "", "", nil, err
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, uploads.MaxImageSize+1))
		if err != nil {
			return "", "", nil, err
		}
		return header.Filename, header.Header.Get("Content-Type"), data, nil
	}

	var req uploadJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return "", "", nil, err
	}
	return req.Filename, req.ContentType, data, nil
}
