package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpaper/atelier-api/internal/domain/settings"
)

const (
	settingsColumns = `id, artist_name, tagline, bio, about_text, profile_image_url, logo_url,
		telegram_bot_token, telegram_chat_id, created_at, updated_at`

	// Single-row table; LIMIT guards against accidental extra rows.
	getSettingsSQL = `SELECT ` + settingsColumns + ` FROM site_settings ORDER BY created_at LIMIT 1`

	upsertSettingsSQL = `INSERT INTO site_settings (id, artist_name, tagline, bio, about_text,
			profile_image_url, logo_url, telegram_bot_token, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			artist_name = EXCLUDED.artist_name,
			tagline = EXCLUDED.tagline,
			bio = EXCLUDED.bio,
			about_text = EXCLUDED.about_text,
			profile_image_url = EXCLUDED.profile_image_url,
			logo_url = EXCLUDED.logo_url,
			telegram_bot_token = EXCLUDED.telegram_bot_token,
			telegram_chat_id = EXCLUDED.telegram_chat_id,
			updated_at = now()`
)

var _ settings.Repository = (*SettingsRepository)(nil)

// SettingsRepository implements settings.Repository backed by PostgreSQL.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository returns a SettingsRepository that uses the given pool.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the settings singleton.
func (r *SettingsRepository) Get(ctx context.Context) (*settings.SiteSettings, error) {
	rows, err := r.pool.Query(ctx, getSettingsSQL)
	if err != nil {
		return nil, fmt.Errorf("getting site settings: %w", err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSettings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settings.ErrNotFound
		}
		return nil, fmt.Errorf("getting site settings: %w", err)
	}
	return &s, nil
}

// Update upserts the settings singleton.
func (r *SettingsRepository) Update(ctx context.Context, s *settings.SiteSettings) error {
	_, err := r.pool.Exec(ctx, upsertSettingsSQL,
		s.ID, s.ArtistName, s.Tagline, s.Bio, s.AboutText,
		s.ProfileImageURL, s.LogoURL, s.TelegramBotToken, s.TelegramChatID,
	)
	if err != nil {
		return fmt.Errorf("updating site settings: %w", err)
	}
	return nil
}

func scanSettings(row pgx.CollectableRow) (settings.SiteSettings, error) {
	var s settings.SiteSettings
	err := row.Scan(
		&s.ID, &s.ArtistName, &s.Tagline, &s.Bio, &s.AboutText, &s.ProfileImageURL,
		&s.LogoURL, &s.TelegramBotToken, &s.TelegramChatID, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}
