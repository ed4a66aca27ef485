package utils

import (
	"context"
)

type contextKey string

// ContextUserIDKey carries the authenticated rep's user ID, injected by the
// session middleware and read by every session-gated handler.
const ContextUserIDKey contextKey = "userID"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}
