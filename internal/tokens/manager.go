package tokens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	meetup "github.com/meetup-tools/attendee-sync"
)

// Prober tests whether an access token is still accepted by the API. A nil
// return means the token is live.
type Prober interface {
	CheckToken(ctx context.Context, accessToken string) error
}

// Refresher mints a new token pair from a refresh token.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*meetup.TokenPair, error)
}

// Manager ties a Store to the probe-and-refresh algorithm: every load costs
// one probe round trip, and an invalid token triggers at most one refresh.
type Manager struct {
	store     Store
	prober    Prober
	refresher Refresher
	log       *slog.Logger
}

func NewManager(store Store, prober Prober, refresher Refresher, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		store:     store,
		prober:    prober,
		refresher: refresher,
		log:       log,
	}
}

// LoadValid returns a token pair the API currently accepts, refreshing and
// re-persisting it if needed. When no stored pair exists, or the refresh path
// is unavailable or rejected, the error wraps ErrAuthorizationRequired.
func (m *Manager) LoadValid(ctx context.Context) (*meetup.TokenPair, error) {
	pair, err := m.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoTokens) {
			return nil, fmt.Errorf("no stored tokens: %w", meetup.ErrAuthorizationRequired)
		}
		return nil, err
	}

	if err := m.prober.CheckToken(ctx, pair.AccessToken); err == nil {
		return pair, nil
	}

	if pair.RefreshToken == "" {
		return nil, fmt.Errorf("access token invalid and no refresh token stored: %w", meetup.ErrAuthorizationRequired)
	}

	m.log.Info("access token invalid, refreshing")

	refreshed, err := m.refresher.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		m.log.Error("token refresh failed", "err", err)
		return nil, fmt.Errorf("token refresh rejected: %w", meetup.ErrAuthorizationRequired)
	}

	// The refresh response may omit the refresh token; keep the old one so
	// the next refresh still works.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = pair.RefreshToken
	}

	if err := m.store.Save(refreshed); err != nil {
		return nil, fmt.Errorf("could not persist refreshed tokens: %w", err)
	}

	return refreshed, nil
}
