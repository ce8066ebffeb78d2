package domain

import "context"

// ContextKey is a type for context keys to avoid magic strings
type ContextKey string

const (
	// ContextKeySubject is the key for the token subject in the context
	ContextKeySubject ContextKey = "sub"
	// ContextKeyPermissions is the key for the granted permissions in the context
	ContextKeyPermissions ContextKey = "permissions"
	// ContextKeyRequestID is the key for the request ID in the context
	ContextKeyRequestID ContextKey = "request_id"
)

// WithPrincipal adds the authorized subject and its permissions to the context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, ContextKeySubject, p.Subject)
	return context.WithValue(ctx, ContextKeyPermissions, p.Permissions)
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// GetSubject retrieves the subject from the context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(ContextKeySubject).(string)
	return subject, ok
}

// GetPermissions retrieves the granted permissions from the context
func GetPermissions(ctx context.Context) ([]string, bool) {
	permissions, ok := ctx.Value(ContextKeyPermissions).([]string)
	return permissions, ok
}

// GetPrincipal rebuilds the authorized principal from the context
func GetPrincipal(ctx context.Context) (Principal, bool) {
	subject, ok := GetSubject(ctx)
	if !ok {
		return Principal{}, false
	}
	permissions, _ := GetPermissions(ctx)
	return Principal{Subject: subject, Permissions: permissions}, true
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	return requestID, ok
}
