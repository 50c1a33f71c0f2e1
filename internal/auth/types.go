package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Role identifies what a principal may do across courses and quizzes.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole normalizes a role string coming from a token or flag.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// CanAuthor reports whether the role may create or edit course content.
func (r Role) CanAuthor() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// Principal is the caller identity passed explicitly into services.
type Principal struct {
	UserID int64
	Role   Role
}

// Anonymous is used when a request carries no token.
var Anonymous = Principal{}

// Authenticated reports whether the principal came from a valid token.
func (p Principal) Authenticated() bool {
	return p.UserID != 0 && p.Role != ""
}

type principalKey struct{}

// WithPrincipal stores the principal in ctx for handlers.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the request principal, or Anonymous.
func PrincipalFromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Anonymous
}
