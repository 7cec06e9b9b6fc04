package service

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxUserIDKey ctxKey = "userID"
	ctxRoleKey   ctxKey = "role"
)

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, id)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ctxUserIDKey).(uuid.UUID)
	return v, ok
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func RoleFor(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}

func WithRole(ctx context.Context, r Role) context.Context {
	return context.WithValue(ctx, ctxRoleKey, r)
}

func RoleFromContext(ctx context.Context) (Role, bool) {
	v, ok := ctx.Value(ctxRoleKey).(Role)
	return v, ok
}

// WithIdentity is what the HTTP auth middleware attaches after verifying a token.
func WithIdentity(ctx context.Context, id uuid.UUID, isAdmin bool) context.Context {
	return WithRole(WithUserID(ctx, id), RoleFor(isAdmin))
}

func requireAuth(ctx context.Context) (uuid.UUID, Role, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", ErrUnauthorized
	}
	role, ok := RoleFromContext(ctx)
	if !ok {
		role = RoleCustomer
	}
	return uid, role, nil
}

// requireAdmin is enforced by every admin operation regardless of route gating.
func requireAdmin(ctx context.Context) (uuid.UUID, error) {
	uid, role, err := requireAuth(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if role != RoleAdmin {
		return uuid.Nil, ErrForbidden
	}
	return uid, nil
}
