package settings

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when the settings row has not been seeded yet.
var ErrNotFound = errors.New("site settings not found")

// SiteSettings is the singleton record holding public display fields and
// messaging credentials. Credentials are optional: when either Telegram
// field is empty, order notifications are silently skipped.
type SiteSettings struct {
	ID               string
	ArtistName       string
	Tagline          string
	Bio              string
	AboutText        *string
	ProfileImageURL  *string
	LogoURL          *string
	TelegramBotToken *string
	TelegramChatID   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TelegramConfigured reports whether both messaging credentials are present
// and non-empty.
func (s *SiteSettings) TelegramConfigured() bool {
	return s.TelegramBotToken != nil && *s.TelegramBotToken != "" &&
		s.TelegramChatID != nil && *s.TelegramChatID != ""
}

// Repository defines persistence operations for the settings singleton.
type Repository interface {
	Get(ctx context.Context) (*SiteSettings, error)
	Update(ctx context.Context, s *SiteSettings) error
}
