package dto

import (
	"time"

	"github.com/jsamuelsen/go-twitter-connections/internal/domain"
)

// ConnectionsResponse lists configured connection names.
type ConnectionsResponse struct {
	Connections []string `json:"connections"`
}

// AccountResponse is the account a connection authenticates as.
type AccountResponse struct {
	ID             string     `json:"id"`
	ScreenName     string     `json:"screenName"`
	Handle         string     `json:"handle"`
	Name           string     `json:"name"`
	Protected      bool       `json:"protected"`
	Verified       bool       `json:"verified"`
	FollowersCount int        `json:"followersCount"`
	FriendsCount   int        `json:"friendsCount"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// AccountEnvelope wraps a single account with its connection name.
type AccountEnvelope struct {
	Connection string           `json:"connection"`
	Account    *AccountResponse `json:"account"`
}

// VerifyResult is the verification outcome of one connection.
type VerifyResult struct {
	Connection string           `json:"connection"`
	OK         bool             `json:"ok"`
	Account    *AccountResponse `json:"account,omitempty"`
	Error      *ErrorDetail     `json:"error,omitempty"`
}

// VerifyResponse is the outcome of verifying every connection.
type VerifyResponse struct {
	Total   int            `json:"total"`
	Failed  int            `json:"failed"`
	Results []VerifyResult `json:"results"`
}

// NewAccountResponse converts a domain account.
func NewAccountResponse(a *domain.Account) *AccountResponse {
	if a == nil {
		return nil
	}

	resp := &AccountResponse{
		ID:             a.ID,
		ScreenName:     a.ScreenName,
		Handle:         a.Handle(),
		Name:           a.Name,
		Protected:      a.Protected,
		Verified:       a.Verified,
		FollowersCount: a.FollowersCount,
		FriendsCount:   a.FriendsCount,
	}

	if !a.CreatedAt.IsZero() {
		createdAt := a.CreatedAt
		resp.CreatedAt = &createdAt
	}

	return resp
}

// NewVerifyResponse converts per-connection statuses, keeping their order.
func NewVerifyResponse(statuses []domain.ConnectionStatus) *VerifyResponse {
	resp := &VerifyResponse{
		Total:   len(statuses),
		Results: make([]VerifyResult, 0, len(statuses)),
	}

	for _, s := range statuses {
		result := VerifyResult{
			Connection: s.Connection,
			OK:         s.OK(),
			Account:    NewAccountResponse(s.Account),
		}

		if !result.OK {
			resp.Failed++

			err := s.Err
			if err == nil {
				err = domain.NewNotFoundError("account", s.Connection)
			}

			detail := ErrorDetailFor(err)
			result.Error = &detail
		}

		resp.Results = append(resp.Results, result)
	}

	return resp
}
