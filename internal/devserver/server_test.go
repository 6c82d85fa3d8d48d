package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"legaltoolkit/authbridge/internal/backend"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(NewUsers(bcrypt.MinCost), NewIssuer(testSecret, 0), nil)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func detailOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Detail
}

func TestRegisterLoginProfile(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/auth/register", map[string]string{
		"email": "a@b.com", "password": "pw", "full_name": "Ann Bee",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var registered backend.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&registered))
	assert.Equal(t, int64(1), registered.ID)
	assert.True(t, registered.IsActive)

	resp = postJSON(t, ts.URL+"/auth/login", backend.LoginRequest{Email: "a@b.com", Password: "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok backend.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	assert.Equal(t, "bearer", tok.TokenType)

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tok.AccessToken, claims, func(*jwt.Token) (any, error) { return testSecret, nil })
	require.NoError(t, err, "token must verify with the server secret")
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, time.Minute)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/user/profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	presp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer presp.Body.Close()
	require.Equal(t, http.StatusOK, presp.StatusCode)
	var profile backend.UserProfile
	require.NoError(t, json.NewDecoder(presp.Body).Decode(&profile))
	assert.Equal(t, "a@b.com", profile.Email)
	assert.Equal(t, "Ann Bee", profile.FullName)
}

func TestRegister_Duplicate(t *testing.T) {
	_, ts := newTestServer(t)
	body := map[string]string{"email": "a@b.com", "password": "pw"}

	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/auth/register", body).StatusCode)

	resp := postJSON(t, ts.URL+"/auth/register", map[string]string{"email": "A@B.com ", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, DetailEmailTaken, detailOf(t, resp))
}

func TestLogin_Failures(t *testing.T) {
	s, ts := newTestServer(t)
	u, err := s.Users().Register("a@b.com", "pw", "")
	require.NoError(t, err)
	_, err = s.Users().Register("off@b.com", "pw", "")
	require.NoError(t, err)
	off, err := s.Users().Authenticate("off@b.com", "pw")
	require.NoError(t, err)
	require.NoError(t, s.Users().SetActive(off.ID, false))

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantDetail string
	}{
		{"wrong password", backend.LoginRequest{Email: u.Email, Password: "nope"}, http.StatusUnauthorized, DetailBadCredentials},
		{"unknown email", backend.LoginRequest{Email: "x@y.z", Password: "pw"}, http.StatusUnauthorized, DetailBadCredentials},
		{"inactive", backend.LoginRequest{Email: "off@b.com", Password: "pw"}, http.StatusBadRequest, DetailInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/auth/login", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantDetail, detailOf(t, resp))
		})
	}

	t.Run("missing password", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/auth/login", map[string]string{"email": "a@b.com"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestProfile_Rejections(t *testing.T) {
	s, ts := newTestServer(t)

	expired := NewIssuer(testSecret, -time.Minute)
	expiredTok, err := expired.Issue(1)
	require.NoError(t, err)
	foreignTok, err := NewIssuer([]byte("other"), 0).Issue(1)
	require.NoError(t, err)
	ghostTok, err := s.tokens.Issue(42)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantDetail string
	}{
		{"no header", "", DetailInvalidToken},
		{"not bearer", "Basic abc", DetailInvalidToken},
		{"garbage", "Bearer abc", DetailInvalidToken},
		{"expired", "Bearer " + expiredTok, DetailInvalidToken},
		{"wrong key", "Bearer " + foreignTok, DetailInvalidToken},
		{"unknown user", "Bearer " + ghostTok, DetailUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/user/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
			assert.Equal(t, tt.wantDetail, detailOf(t, resp))
		})
	}
}

func TestProfile_Subscription(t *testing.T) {
	s, ts := newTestServer(t)
	u, err := s.Users().Register("a@b.com", "pw", "")
	require.NoError(t, err)
	require.NoError(t, s.Users().SetSubscription(u.ID, &backend.SubscriptionInfo{PlanType: "monthly", Status: "active"}))
	tok, err := s.tokens.Issue(u.ID)
	require.NoError(t, err)

	profile, err := backend.New(ts.URL).GetProfile(t.Context(), tok)
	require.NoError(t, err)
	require.NotNil(t, profile.Subscription)
	assert.Equal(t, "monthly", profile.Subscription.PlanType)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}
