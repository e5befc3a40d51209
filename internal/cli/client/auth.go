package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Login exchanges credentials for a bearer token using the password grant.
// On success the session adopts the token, persisting it only when RememberMe is set.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	form := url.Values{
		"username":   {creds.Username},
		"password":   {creds.Password},
		"grant_type": {"password"},
	}

	var tokenResp TokenResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &tokenResp)
	if err != nil {
		return "", err
	}

	if err := c.session.SetToken(tokenResp.AccessToken, creds.RememberMe); err != nil {
		return "", err
	}

	c.logger.Info().Str("user", creds.Username).Bool("remember_me", creds.RememberMe).Msg("Logged in")
	return tokenResp.AccessToken, nil
}

// Logout discards the session token
func (c *Client) Logout() error {
	return c.session.SetToken("", false)
}
