package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sciarticles/models"
)

// ClerkProfileProvider reads user profiles from the Clerk backend API.
type ClerkProfileProvider struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func NewClerkProfileProvider(baseURL, secretKey string) *ClerkProfileProvider {
	return &ClerkProfileProvider{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type clerkUser struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Username              string `json:"username"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (p *ClerkProfileProvider) FetchProfile(ctx context.Context, externalID string) (*models.IdentityProfile, error) {
	endpoint := p.BaseURL + "/users/" + url.PathEscape(externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clerk request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clerk returned %d for user %s", resp.StatusCode, externalID)
	}

	var u clerkUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode clerk user: %w", err)
	}

	// primary address first, then the rest in API order
	emails := make([]string, 0, len(u.EmailAddresses))
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			emails = append([]string{e.EmailAddress}, emails...)
			continue
		}
		emails = append(emails, e.EmailAddress)
	}

	return &models.IdentityProfile{
		ExternalID: u.ID,
		Emails:     emails,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
	}, nil
}
