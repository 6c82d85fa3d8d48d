// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samber/lo"

	apperrors "legaltoolkit/authbridge/internal/errors"
	"legaltoolkit/authbridge/internal/session"
)

type handler func(ctx context.Context, c *Commands, args json.RawMessage) (any, *AuthError)

var handlers = map[string]handler{
	CmdLoginUser: func(ctx context.Context, c *Commands, args json.RawMessage) (any, *AuthError) {
		var in struct {
			Credentials *session.Credentials `json:"credentials"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, c.fail(CmdLoginUser, invalidArguments(CmdLoginUser, err.Error()))
		}
		if in.Credentials == nil {
			return nil, c.fail(CmdLoginUser, invalidArguments(CmdLoginUser, "missing credentials"))
		}
		return unwrap(c.LoginUser(ctx, *in.Credentials))
	},
	CmdValidateToken: func(ctx context.Context, c *Commands, _ json.RawMessage) (any, *AuthError) {
		return unwrap(c.ValidateToken(ctx))
	},
	CmdLogoutUser: func(_ context.Context, c *Commands, _ json.RawMessage) (any, *AuthError) {
		return unwrap(c.LogoutUser())
	},
	CmdCheckAuthStatus: func(_ context.Context, c *Commands, _ json.RawMessage) (any, *AuthError) {
		return c.CheckAuthStatus(), nil
	},
	CmdRefreshUserProfile: func(ctx context.Context, c *Commands, _ json.RawMessage) (any, *AuthError) {
		return unwrap(c.RefreshUserProfile(ctx))
	},
}

// unwrap keeps a nil result out of the reply when the command failed.
func unwrap(res session.AuthResult, ae *AuthError) (any, *AuthError) {
	if ae != nil {
		return nil, ae
	}
	return res, nil
}

// Names returns the registered command names, sorted.
func Names() []string {
	names := lo.Keys(handlers)
	slices.Sort(names)
	return names
}

// Reply is the JSON envelope written back to the shell for one invocation.
type Reply struct {
	Result any        `json:"result,omitempty"`
	Error  *AuthError `json:"error,omitempty"`
}

// Invoke runs the command called name with the JSON argument object args.
// Empty args are treated as {}.
func (c *Commands) Invoke(ctx context.Context, name string, args []byte) (any, *AuthError) {
	h, ok := handlers[name]
	if !ok {
		ae := &AuthError{
			ErrorType:   apperrors.UnknownCommand,
			Message:     fmt.Sprintf("unknown command %q, expected one of %v", name, Names()),
			UserMessage: userMessages[apperrors.UnknownCommand],
		}
		return nil, c.fail(name, ae)
	}

	raw := bytes.TrimSpace(args)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) || raw[0] != '{' {
		return nil, c.fail(name, invalidArguments(name, "arguments must be a JSON object"))
	}
	return h(ctx, c, raw)
}

// InvokeReply is Invoke wrapped in a Reply.
func (c *Commands) InvokeReply(ctx context.Context, name string, args []byte) Reply {
	res, ae := c.Invoke(ctx, name, args)
	return Reply{Result: res, Error: ae}
}

func invalidArguments(command, msg string) *AuthError {
	return &AuthError{
		ErrorType:   apperrors.InvalidArguments,
		Message:     command + ": " + msg,
		UserMessage: userMessages[apperrors.InvalidArguments],
	}
}
