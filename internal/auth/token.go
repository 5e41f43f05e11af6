package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/arivu/arivu/internal/connector"
)

// refreshMargin is the headroom before expiry at which a token is refreshed
// proactively rather than waited out.
const refreshMargin = 60 * time.Second

// Refresher exchanges a refresh_token for a new access_token. Connectors
// implement this against their own OAuth provider; EnsureAccess is
// provider-agnostic.
type Refresher interface {
	Refresh(ctx context.Context, details connector.AuthDetails) (connector.AuthDetails, error)
}

// NeedsRefresh reports whether the stored token is within refreshMargin of
// its expiry, or has no expires_at at all (treated as expired).
func NeedsRefresh(details connector.AuthDetails, now time.Time) bool {
	expiresAt, ok := expiresAtOf(details)
	if !ok {
		return true
	}
	return now.Add(refreshMargin).After(expiresAt)
}

// EnsureAccess returns details usable for an authenticated call, refreshing
// and persisting via store first if the current token is near expiry.
func EnsureAccess(ctx context.Context, store *Store, provider string, refresher Refresher, now time.Time) (connector.AuthDetails, error) {
	details := store.Get(provider)
	if !NeedsRefresh(details, now) {
		return details, nil
	}

	refreshed, err := refresher.Refresh(ctx, details)
	if err != nil {
		return connector.AuthDetails{}, connector.Authentication("refreshing token for %q: %v", provider, err)
	}
	if err := store.Save(provider, refreshed); err != nil {
		return connector.AuthDetails{}, err
	}
	return refreshed, nil
}

func expiresAtOf(details connector.AuthDetails) (time.Time, bool) {
	raw := details.Get("expires_at")
	if raw == "" {
		return time.Time{}, false
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(epoch, 0), true
}
