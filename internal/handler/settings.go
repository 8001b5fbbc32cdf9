package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/inkpaper/atelier-api/internal/domain/settings"
)

// publicSettingsResponse carries the storefront display fields. Messaging
// credentials are write-only through the API and never serialized.
type publicSettingsResponse struct {
	ArtistName      string  `json:"artistName"`
	Tagline         string  `json:"tagline"`
	Bio             string  `json:"bio"`
	AboutText       *string `json:"aboutText,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
	LogoURL         *string `json:"logoUrl,omitempty"`
}

type adminSettingsResponse struct {
	publicSettingsResponse
	TelegramConfigured bool `json:"telegramConfigured"`
}

func toPublicSettings(s *settings.SiteSettings) publicSettingsResponse {
	return publicSettingsResponse{
		ArtistName:      s.ArtistName,
		Tagline:         s.Tagline,
		Bio:             s.Bio,
		AboutText:       s.AboutText,
		ProfileImageURL: s.ProfileImageURL,
		LogoURL:         s.LogoURL,
	}
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			writeError(w, http.StatusNotFound, "site settings not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPublicSettings(s))
}

type updateSettingsRequest struct {
	ArtistName      string  `json:"artistName"`
	Tagline         string  `json:"tagline"`
	Bio             string  `json:"bio"`
	AboutText       *string `json:"aboutText,omitempty"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
	LogoURL         *string `json:"logoUrl,omitempty"`
	// nil leaves the stored credential untouched, "" clears it.
	TelegramBotToken *string `json:"telegramBotToken,omitempty"`
	TelegramChatID   *string `json:"telegramChatId,omitempty"`
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cur, err := h.settings.Get(r.Context())
	if err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			writeInternalError(w, r, err)
			return
		}
		cur = &settings.SiteSettings{
			ID:        uuid.New().String(),
			CreatedAt: time.Now().UTC(),
		}
	}

	cur.ArtistName = req.ArtistName
	cur.Tagline = req.Tagline
	cur.Bio = req.Bio
	cur.AboutText = req.AboutText
	cur.ProfileImageURL = req.ProfileImageURL
	cur.LogoURL = req.LogoURL
	if req.TelegramBotToken != nil {
		cur.TelegramBotToken = req.TelegramBotToken
	}
	if req.TelegramChatID != nil {
		cur.TelegramChatID = req.TelegramChatID
	}
	cur.UpdatedAt = time.Now().UTC()

	if err := h.settings.Update(r.Context(), cur); err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, adminSettingsResponse{
		publicSettingsResponse: toPublicSettings(cur),
		TelegramConfigured:     cur.TelegramConfigured(),
	})
}
