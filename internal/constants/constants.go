package constants

// Session and context keys
const (
	SessionCookieName = "vastsea_session"
	ContextKeyUserID  = "user_id"
)

// Validation bounds
const (
	MinPasswordLength    = 6
	MinTitleLength       = 3
	MaxTitleLength       = 100
	MinDescriptionLength = 10
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
