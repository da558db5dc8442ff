package constants

const (
	// ContextKeyUserID is the session and gin context key holding the logged-in user ID.
	ContextKeyUserID = "user_id"
	// ContextKeyActor is the gin context key holding the resolved authz.Actor.
	ContextKeyActor = "actor"
	// ContextKeyRequestID is the gin context key holding the request ID.
	ContextKeyRequestID = "request_id"

	SessionCookieName = "project_session"

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	MaxAIGeneratedTasks = 20

	// MaxRegistrationAttempts bounds retries after losing a slug race during registration.
	MaxRegistrationAttempts = 3
)
