package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPLookup fetches snapshots from the identity provider's admin user
// endpoint with a service-role key.
type HTTPLookup struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPLookup(baseURL, apiKey string) *HTTPLookup {
	return &HTTPLookup{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type adminUserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name    *string `json:"name"`
		Picture *string `json:"picture"`
	} `json:"user_metadata"`
}

func (l *HTTPLookup) Profile(ctx context.Context, userID string) (*Snapshot, error) {
	u := fmt.Sprintf("%s/admin/users/%s", l.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("apikey", l.apiKey)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity store returned %d", resp.StatusCode)
	}

	var body adminUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &Snapshot{
		Sub:     body.ID,
		Email:   body.Email,
		Name:    body.UserMetadata.Name,
		Picture: body.UserMetadata.Picture,
	}, nil
}
