package backend

import (
	"context"
	"net/http"
	"net/url"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// IssueToken posts form-encoded credentials to the token endpoint and
// returns the bearer token.
func (c *Client) IssueToken(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out tokenResponse
	if err := c.do(ctx, request{
		op:     "issue_token",
		method: http.MethodPost,
		path:   "/api/v1/auth/token",
		form:   form.Encode(),
		out:    &out,
	}); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
