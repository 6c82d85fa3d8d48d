// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"io"
	"net/http"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

// GetProfile calls GET /user/profile with Authorization: Bearer <token>.
// Nothing is cached; every call goes to the server.
func (h *HTTP) GetProfile(ctx context.Context, accessToken string) (UserProfile, error) {
	req, err := h.newRequest(ctx, http.MethodGet, PathProfile, nil)
	if err != nil {
		return UserProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := h.do(req)
	if err != nil {
		return UserProfile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return UserProfile{}, apperrors.Status(resp.StatusCode, "failed to get profile")
	}

	var profile UserProfile
	if err := decode(resp.Body, &profile, "profile response"); err != nil {
		return UserProfile{}, err
	}
	return profile, nil
}
