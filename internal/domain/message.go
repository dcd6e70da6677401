package domain

import "time"

// Message records an outbound SMS sent from the portal (page links,
// not OTP codes — codes are never persisted in clear).
type Message struct {
	MessageID     string    `json:"id" dynamodbav:"message_id"`
	DoctorID      string    `json:"doctor_id" dynamodbav:"doctor_id"`
	Recipient     string    `json:"recipient" dynamodbav:"recipient"`
	RecipientName string    `json:"recipient_name" dynamodbav:"recipient_name"`
	Body          string    `json:"message" dynamodbav:"body"`
	SentAt        time.Time `json:"sent_at" dynamodbav:"sent_at"`
}
