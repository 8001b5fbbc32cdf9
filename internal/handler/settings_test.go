package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpaper/atelier-api/internal/domain/settings"
)

func sampleSettings() *settings.SiteSettings {
	token := "123456:bot-token"
	chat := "-100200300"
	return &settings.SiteSettings{
		ID:               "default",
		ArtistName:       "Ink & Paper Studio",
		Tagline:          "Small-batch art goods",
		Bio:              "Ink drawings and ceramics from a one-person studio.",
		TelegramBotToken: &token,
		TelegramChatID:   &chat,
	}
}

func TestGetSettings_OmitsCredentials(t *testing.T) {
	f := newFixture()
	f.settings.get = func(context.Context) (*settings.SiteSettings, error) {
		return sampleSettings(), nil
	}

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "bot-token")
	assert.NotContains(t, body, "telegram")
	resp := decodeJSON[publicSettingsResponse](t, rec.Body)
	assert.Equal(t, "Ink & Paper Studio", resp.ArtistName)
}

func TestGetSettings_NotSeeded(t *testing.T) {
	f := newFixture()

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateSettings_PreservesCredentialsWhenOmitted(t *testing.T) {
	f := newFixture()
	f.settings.get = func(context.Context) (*settings.SiteSettings, error) {
		return sampleSettings(), nil
	}
	var saved *settings.SiteSettings
	f.settings.update = func(_ context.Context, s *settings.SiteSettings) error {
		saved = s
		return nil
	}

	req := postJSON("/api/admin/settings", `{
		"artistName": "Ink & Paper Studio",
		"tagline": "New tagline",
		"bio": "Updated bio"
	}`)
	req.Method = http.MethodPut
	rec := f.do(t, authed(t, req))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, saved)
	assert.Equal(t, "New tagline", saved.Tagline)
	require.NotNil(t, saved.TelegramBotToken, "omitted credential must not be cleared")
	assert.Equal(t, "123456:bot-token", *saved.TelegramBotToken)

	resp := decodeJSON[adminSettingsResponse](t, rec.Body)
	assert.True(t, resp.TelegramConfigured)
}

func TestUpdateSettings_ClearsCredentialWithEmptyString(t *testing.T) {
	f := newFixture()
	f.settings.get = func(context.Context) (*settings.SiteSettings, error) {
		return sampleSettings(), nil
	}
	var saved *settings.SiteSettings
	f.settings.update = func(_ context.Context, s *settings.SiteSettings) error {
		saved = s
		return nil
	}

	req := postJSON("/api/admin/settings", `{
		"artistName": "Ink & Paper Studio",
		"tagline": "t",
		"bio": "b",
		"telegramBotToken": "",
		"telegramChatId": ""
	}`)
	req.Method = http.MethodPut
	rec := f.do(t, authed(t, req))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, saved)
	assert.False(t, saved.TelegramConfigured())

	resp := decodeJSON[adminSettingsResponse](t, rec.Body)
	assert.False(t, resp.TelegramConfigured)
}

func TestUpdateSettings_CreatesRowWhenMissing(t *testing.T) {
	f := newFixture()
	var saved *settings.SiteSettings
	f.settings.update = func(_ context.Context, s *settings.SiteSettings) error {
		saved = s
		return nil
	}

	req := postJSON("/api/admin/settings", `{
		"artistName": "Ink & Paper Studio",
		"tagline": "t",
		"bio": "b"
	}`)
	req.Method = http.MethodPut
	rec := f.do(t, authed(t, req))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.ID)
}
