package domain

import "time"

// Roles a session identity can carry. Assigned by the auth provider;
// this service only reads them.
const (
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleUser   = "user"
)

// PrivatePage is an administrator-curated, per-patient content page.
// The page ID is the opaque segment after /private-page-patient/ in
// portal URLs; content behind it is served only after OTP verification.
type PrivatePage struct {
	PageID      string     `json:"id" dynamodbav:"page_id"`
	PatientName string     `json:"patient_name" dynamodbav:"patient_name"`
	Phone       string     `json:"phone" dynamodbav:"phone"`
	DoctorID    string     `json:"doctor_id" dynamodbav:"doctor_id"`
	Enable      bool       `json:"enable" dynamodbav:"enable"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreatePageRequest struct {
	PatientName string `json:"patient_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
}

type ShareLinkRequest struct {
	Phone       string `json:"phoneNumber" validate:"required"`
	PatientName string `json:"patientName" validate:"required"`
}
