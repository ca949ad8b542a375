package backend

import (
	"context"
	"net/http"
	"strings"
)

// Credentials is the login payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the cookies the backend set on a successful login, so
// they can be relayed to the browser
type LoginResult struct {
	Cookies []*http.Cookie
}

// Login posts credentials to /auth/login. A non-2xx answer is an *APIError.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	resp, err := c.do(ctx, request{
		endpoint: "auth.login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     creds,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Cookies: resp.cookies}, nil
}

// Logout posts to /auth/logout forwarding the caller's backend cookies
func (c *Client) Logout(ctx context.Context, cookies []*http.Cookie) error {
	_, err := c.do(ctx, request{
		endpoint: "auth.logout",
		method:   http.MethodPost,
		path:     "/auth/logout",
		cookies:  cookies,
	}, nil)
	return err
}

// Me is what the whoami endpoint tells about the caller
type Me struct {
	Email        string
	BusinessName string
}

type meFields struct {
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
}

type meBody struct {
	meFields
	Data *meFields `json:"data"`
	User *meFields `json:"user"`
}

func (b meBody) resolve() Me {
	for _, f := range []*meFields{&b.meFields, b.Data, b.User} {
		if f != nil && strings.TrimSpace(f.Email) != "" {
			return Me{Email: strings.TrimSpace(f.Email), BusinessName: strings.TrimSpace(f.BusinessName)}
		}
	}
	return Me{}
}

// Me asks the backend who owns the forwarded cookies. The identity may sit at
// the top level of the body, under "data" or under "user". A 2xx answer with
// no email yields a zero Me and a nil error.
func (c *Client) Me(ctx context.Context, cookies []*http.Cookie) (Me, error) {
	var body meBody
	if _, err := c.do(ctx, request{
		endpoint: "auth.me",
		method:   http.MethodGet,
		path:     c.mePath,
		cookies:  cookies,
	}, &body); err != nil {
		return Me{}, err
	}
	return body.resolve(), nil
}
