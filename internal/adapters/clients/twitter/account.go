package twitter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
)

// VerifyCredentialsPath returns the user a set of credentials belongs to.
const VerifyCredentialsPath = "/1.1/account/verify_credentials.json"

// createdAtLayout is the timestamp format of v1.1 user objects.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Accounts implements ports.AccountClient on top of a Registry.
type Accounts struct {
	registry *Registry
	logger   *slog.Logger
}

// NewAccounts creates an account adapter. Panics if registry is nil.
func NewAccounts(registry *Registry, logger *slog.Logger) *Accounts {
	if registry == nil {
		panic("twitter.Accounts: registry is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Accounts{registry: registry, logger: logger}
}

// userResponse is the subset of the v1.1 user object we read.
type userResponse struct {
	IDStr          string `json:"id_str"`
	ScreenName     string `json:"screen_name"`
	Name           string `json:"name"`
	Protected      bool   `json:"protected"`
	Verified       bool   `json:"verified"`
	FollowersCount int    `json:"followers_count"`
	FriendsCount   int    `json:"friends_count"`
	CreatedAt      string `json:"created_at"`
}

// VerifyCredentials returns the account behind connection.
func (a *Accounts) VerifyCredentials(ctx context.Context, connection string) (*domain.Account, error) {
	client, err := a.registry.GetClient(connection)
	if err != nil {
		return nil, err
	}

	a.logger.Log(ctx, logging.LevelTrace, "verifying credentials", slog.String("connection", client.Name()))

	resp, err := client.Get(ctx, VerifyCredentialsPath, url.Values{
		"skip_status":      {"true"},
		"include_entities": {"false"},
	})
	if err != nil {
		return nil, fmt.Errorf("verifying %q: %w", client.Name(), err)
	}

	ext, err := acl.Decode[userResponse](resp.Body)
	if err != nil {
		return nil, err
	}

	if err := acl.ValidateRequired(ext.IDStr, "id_str"); err != nil {
		return nil, err
	}

	return toAccount(ext), nil
}

func toAccount(ext *userResponse) *domain.Account {
	acct := &domain.Account{
		ID:             ext.IDStr,
		ScreenName:     ext.ScreenName,
		Name:           ext.Name,
		Protected:      ext.Protected,
		Verified:       ext.Verified,
		FollowersCount: ext.FollowersCount,
		FriendsCount:   ext.FriendsCount,
	}

	if t, err := time.Parse(createdAtLayout, ext.CreatedAt); err == nil {
		acct.CreatedAt = t.UTC()
	}

	return acct
}
