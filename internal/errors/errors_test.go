package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "without cause",
			err:  New(NoToken, "no stored token found"),
			want: "no_token: no stored token found",
		},
		{
			name: "with cause",
			err:  Wrap(Network, "post /auth/login", stderrors.New("connection refused")),
			want: "network_error: post /auth/login: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("save token: %w", Wrap(Persistence, "write record", cause))

	assert.Equal(t, Persistence, KindOf(err))
	assert.True(t, Is(err, Persistence))
	assert.False(t, Is(err, Network))
	assert.ErrorIs(t, err, cause)
}

func TestIs_NestedKinds(t *testing.T) {
	inner := Wrap(Network, "get /user/profile", stderrors.New("connection reset"))
	err := fmt.Errorf("refresh: %w", Wrap(Persistence, "reload", inner))

	assert.Equal(t, Persistence, KindOf(err))
	assert.True(t, Is(err, Persistence))
	assert.True(t, Is(err, Network))
	assert.False(t, Is(err, Parse))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
	assert.False(t, Is(nil, Network))
}

func TestStatus(t *testing.T) {
	err := fmt.Errorf("profile: %w", Status(http.StatusUnauthorized, "failed to get profile"))

	require.True(t, Is(err, Server))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, 0, StatusOf(New(Parse, "bad body")))
}
