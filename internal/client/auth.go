package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const authMaxAttempts = 3

// トークンから読んだユーザー情報（署名は検証しない）
type User struct {
	ID        int64
	Email     string
	Role      string
	ExpiresAt time.Time
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenData struct {
	Token string `json:"token"`
}

// 401/403 はエラーにせず nil を返す
func (a *API) Registration(ctx context.Context, email, password string) (*User, error) {
	return a.authenticate(ctx, http.MethodPost, "/api/user/registration", credentials{Email: email, Password: password})
}

func (a *API) Login(ctx context.Context, email, password string) (*User, error) {
	return a.authenticate(ctx, http.MethodPost, "/api/user/login", credentials{Email: email, Password: password})
}

// Check はトークンを再発行してもらう
func (a *API) Check(ctx context.Context) (*User, error) {
	return a.authenticate(ctx, http.MethodGet, "/api/user/auth", nil)
}

func (a *API) authenticate(ctx context.Context, method, path string, body any) (*User, error) {
	var out tokenData
	err := a.withRateLimitRetry(ctx, func() error {
		return a.do(ctx, method, path, body, &out)
	})
	if err != nil {
		switch StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, nil
		}
		return nil, err
	}

	u, err := decodeToken(out.Token)
	if err != nil {
		return nil, err
	}
	a.SetToken(out.Token)
	return u, nil
}

// 429 のときだけ最大3回まで。待ちは base, base*2。
func (a *API) withRateLimitRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < authMaxAttempts; attempt++ {
		err = fn()
		if StatusOf(err) != http.StatusTooManyRequests || attempt == authMaxAttempts-1 {
			return err
		}

		t := time.NewTimer(a.retryBase << attempt)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

func decodeToken(token string) (*User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: token: %v", ErrMalformedResponse, err)
	}

	u := &User{}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return nil, fmt.Errorf("%w: token without id", ErrMalformedResponse)
	}
	u.ID = int64(id)
	u.Email, _ = claims["email"].(string)
	u.Role, _ = claims["role"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		u.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return u, nil
}
