package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderCreateSession = "X-Create-Session"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized  = "Unauthorized"
	MsgForbidden     = "Access forbidden"
	MsgNotFound      = "Resource not found"
	MsgBadRequest    = "Invalid request"
	MsgInternalError = "Internal server error"
	MsgConflict      = "Resource already exists"
)

// HTTP Success Messages
const (
	MsgCreated = "Resource created successfully"
	MsgUpdated = "Resource updated successfully"
	MsgDeleted = "Resource deleted successfully"
	MsgSuccess = "Operation completed successfully"
)
