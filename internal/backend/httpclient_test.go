package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "legaltoolkit/authbridge/internal/errors"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantToken  string
		wantKind   apperrors.Kind
		wantStatus int
		wantMsg    string
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      `{"access_token":"abc","token_type":"bearer"}`,
			wantToken: "abc",
		},
		{
			name:       "rejected with detail",
			status:     http.StatusUnauthorized,
			body:       `{"detail":"Incorrect email or password"}`,
			wantKind:   apperrors.Server,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Incorrect email or password",
		},
		{
			name:       "validation error keeps raw body",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail":[{"loc":["body","email"],"msg":"field required"}]}`,
			wantKind:   apperrors.Server,
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    `{"detail":[{"loc":["body","email"],"msg":"field required"}]}`,
		},
		{
			name:       "empty error body",
			status:     http.StatusInternalServerError,
			body:       ``,
			wantKind:   apperrors.Server,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Unknown error",
		},
		{
			name:     "malformed success body",
			status:   http.StatusOK,
			body:     `<html>`,
			wantKind: apperrors.Parse,
		},
		{
			name:     "missing token",
			status:   http.StatusOK,
			body:     `{"token_type":"bearer"}`,
			wantKind: apperrors.Parse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, PathLogin, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "authbridge/test", r.Header.Get("User-Agent"))

				var req LoginRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "a@b.com", req.Email)
				assert.Equal(t, "pw", req.Password)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			h := New(srv.URL+"/", WithUserAgent("authbridge/test"))
			tok, err := h.Login(context.Background(), "a@b.com", "pw")

			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, tok.AccessToken)
				assert.Equal(t, "bearer", tok.TokenType)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			assert.Equal(t, tt.wantStatus, apperrors.StatusOf(err))
			if tt.wantMsg != "" {
				var e *apperrors.E
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.wantMsg, e.Message)
			}
		})
	}
}

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid authentication credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"id": 7,
			"email": "a@b.com",
			"full_name": "Ada B",
			"is_active": true,
			"created_at": "2024-05-01T10:00:00.123456",
			"subscription": {"plan_type": "monthly", "status": "active", "created_at": "2024-06-01T00:00:00Z"}
		}`))
	}))
	defer srv.Close()

	h := New(srv.URL)

	p, err := h.GetProfile(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "7", p.UserID())
	assert.Equal(t, "Ada B", p.FullName)
	assert.True(t, p.IsActive)
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC).Equal(p.CreatedAt.Time))
	require.NotNil(t, p.Subscription)
	assert.Equal(t, "monthly", p.Subscription.PlanType)

	_, err = h.GetProfile(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Server))
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
	assert.NotContains(t, err.Error(), "Invalid authentication credentials")
}

func TestNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h := New(url, WithTimeout(time.Second))

	_, err := h.Login(context.Background(), "a@b.com", "pw")
	assert.True(t, apperrors.Is(err, apperrors.Network), "login: %v", err)

	_, err = h.GetProfile(context.Background(), "tok")
	assert.True(t, apperrors.Is(err, apperrors.Network), "profile: %v", err)

	err = h.Health(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.Network), "health: %v", err)
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathHealth, r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	h := New(srv.URL)
	require.NoError(t, h.Health(context.Background()))

	healthy.Store(false)
	err := h.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.StatusOf(err))
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-05-01T10:00:00Z"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`"2024-05-01T12:00:00+02:00"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`"2024-05-01T10:00:00"`, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{`"2024-05-01 10:00:00.5"`, time.Date(2024, 5, 1, 10, 0, 0, 500000000, time.UTC)},
		{`null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))

	b, err := json.Marshal(Timestamp{time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T10:00:00Z"`, string(b))
}
