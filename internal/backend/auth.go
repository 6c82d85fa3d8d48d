// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// Login posts {email, password} to /auth/login and returns the issued token.
// On a non-2xx reply the returned server_error carries the status code and the
// server's detail text as its message.
func (h *HTTP) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	body, err := json.Marshal(LoginRequest{Email: email, Password: password})
	if err != nil {
		return TokenResponse{}, apperrors.Wrap(apperrors.Parse, "encode login request", err)
	}

	req, err := h.newRequest(ctx, http.MethodPost, PathLogin, bytes.NewReader(body))
	if err != nil {
		return TokenResponse{}, err
	}
	resp, err := h.do(req)
	if err != nil {
		return TokenResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return TokenResponse{}, apperrors.Status(resp.StatusCode, errorDetail(b))
	}

	var out TokenResponse
	if err := decode(resp.Body, &out, "login response"); err != nil {
		return TokenResponse{}, err
	}
	if out.AccessToken == "" {
		return TokenResponse{}, apperrors.New(apperrors.Parse, "failed to parse login response: empty access_token")
	}
	return out, nil
}
