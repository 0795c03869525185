package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context Keys for request tracking and metadata
const (
	CtxKeyRequestID ContextKey = "request_id"
	CtxKeyUserID    ContextKey = "user_id"
	CtxKeyClientIP  ContextKey = "client_ip"
	CtxKeyUserAgent ContextKey = "user_agent"
	CtxKeyStartTime ContextKey = "start_time"
	CtxKeyModule    ContextKey = "module"
	CtxKeyFunction  ContextKey = "function"
)

// Gin context keys set by the access-control guards
const (
	GinKeyUserID   = "user_id"
	GinKeyEmail    = "email"
	GinKeyName     = "name"
	GinKeySession  = "session"
	GinKeyAuthUser = "auth_user"
	GinKeyUserRole = "user_role"
)
