package common

// Metadata slots that hold the persisted credential pair.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// RequestIDHeaderName carries the per-request correlation id on outbound calls.
const RequestIDHeaderName = "X-Request-ID"
