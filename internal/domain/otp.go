package domain

import "time"

// OTPCode is the single active verification code for an identifier
// (phone number in E.164 form, or an email address).
// PK: identifier. Issuing again for the same identifier overwrites the
// record, so the last code sent is the only one that verifies.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL; the service also
// enforces it on read, since TTL deletion is best-effort.
type OTPCode struct {
	Identifier string    `json:"identifier" dynamodbav:"identifier"`
	CodeHash   string    `json:"-" dynamodbav:"code_hash"`
	ExpiresAt  int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
}
