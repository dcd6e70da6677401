package domain

import "time"

// Document is a patient file attached to a private page, stored in S3
// and indexed here by page.
type Document struct {
	DocumentID string    `json:"id" dynamodbav:"document_id"`
	PageID     string    `json:"page_id" dynamodbav:"page_id"`
	FileName   string    `json:"file_name" dynamodbav:"file_name"`
	S3Key      string    `json:"-" dynamodbav:"s3_key"`
	SizeBytes  int64     `json:"size_bytes" dynamodbav:"size_bytes"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}

type UploadDocumentRequest struct {
	FileName string `json:"file_name" validate:"required"`
	Data     string `json:"data" validate:"required"` // base64-encoded content
}
