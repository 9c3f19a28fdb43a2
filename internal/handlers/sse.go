package handlers

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	datastar "github.com/starfederation/datastar-go/datastar"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// StreamRoom streams room snapshots to one player over SSE. An initial
// snapshot is patched on connect, then one per committed mutation.
func (h *Handler) StreamRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	room, err := h.store.GetRoom(roomCode)
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	viewerID := playerID(r, roomCode)
	if viewerID == "" || room.GetPlayer(viewerID) == nil {
		http.Error(w, "Not in room", http.StatusUnauthorized)
		return
	}

	sse := datastar.NewSSE(w, r)

	events := h.eventBus.Subscribe(roomCode)
	defer h.eventBus.Unsubscribe(roomCode, events)

	log.Printf("room %s: SSE stream opened for player %s", roomCode, viewerID)

	send := func() error {
		return sse.MarshalAndPatchSignals(map[string]interface{}{
			"room": room.View(viewerID),
		})
	}

	if err := send(); err != nil {
		return
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			log.Printf("room %s: SSE stream closed for player %s", roomCode, viewerID)
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			if err := send(); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

type qrResponse struct {
	Code string `json:"code"`
	URL  string `json:"url"`
	PNG  string `json:"png"` // base64
}

// RoomQR serves a QR code for the room's join URL.
func (h *Handler) RoomQR(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "code")

	if _, err := h.store.GetRoom(roomCode); err != nil {
		respondError(w, err)
		return
	}

	joinURL := fmt.Sprintf("%s/room/%s", getBaseURL(r), roomCode)
	encoded, err := generateQRCode(joinURL)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "could not generate QR code"})
		return
	}

	respondJSON(w, http.StatusOK, qrResponse{Code: roomCode, URL: joinURL, PNG: encoded})
}

// generateQRCode renders the URL as a PNG and returns it base64 encoded.
func generateQRCode(url string) (string, error) {
	qrc, err := qrcode.NewWith(url,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
		qrcode.WithEncodingMode(qrcode.EncModeByte),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	tmpFile := fmt.Sprintf("%s/qr_%d.png", os.TempDir(), time.Now().UnixNano())

	qw, err := standard.New(tmpFile,
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create writer: %w", err)
	}

	if err := qrc.Save(qw); err != nil {
		return "", fmt.Errorf("failed to save QR code: %w", err)
	}

	data, err := os.ReadFile(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to read QR code file: %w", err)
	}
	os.Remove(tmpFile)

	return base64.StdEncoding.EncodeToString(data), nil
}

// getBaseURL constructs the base URL from the request, honoring proxy
// forwarding headers.
func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if forwardedHost := r.Header.Get("X-Forwarded-Host"); forwardedHost != "" {
		host = forwardedHost
	}

	return fmt.Sprintf("%s://%s", scheme, host)
}
