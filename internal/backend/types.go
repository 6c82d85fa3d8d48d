// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the 2xx body of POST /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserProfile is the identity snapshot returned by GET /user/profile.
type UserProfile struct {
	ID           int64             `json:"id"`
	Email        string            `json:"email"`
	FullName     string            `json:"full_name"`
	IsActive     bool              `json:"is_active"`
	CreatedAt    Timestamp         `json:"created_at"`
	Subscription *SubscriptionInfo `json:"subscription,omitempty"`
}

// UserID is the profile id in the string form handed to the desktop shell.
func (p UserProfile) UserID() string {
	return strconv.FormatInt(p.ID, 10)
}

// SubscriptionInfo describes the active plan, when the user has one.
type SubscriptionInfo struct {
	PlanType  string    `json:"plan_type"`
	Status    string    `json:"status"`
	CreatedAt Timestamp `json:"created_at"`
}

// Timestamp is a time.Time that also accepts the zone-less ISO-8601 values the
// API emits for naive datetimes; those are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
