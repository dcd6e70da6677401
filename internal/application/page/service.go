package page

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/sns"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/pkg/id"
)

const presignTTL = 15 * time.Minute

// PageStore is the minimal page persistence the service requires.
type PageStore interface {
	Put(ctx context.Context, p *domain.PrivatePage) error
	Get(ctx context.Context, pageID string) (*domain.PrivatePage, error)
	Scan(ctx context.Context) ([]domain.PrivatePage, error)
	SoftDelete(ctx context.Context, pageID string) error
}

// MessageStore records outbound share-link SMS sends.
type MessageStore interface {
	Put(ctx context.Context, m *domain.Message) error
	ListByDoctor(ctx context.Context, doctorID string) ([]domain.Message, error)
}

// DocumentStore is the document index persistence.
type DocumentStore interface {
	Put(ctx context.Context, d *domain.Document) error
	Get(ctx context.Context, documentID string) (*domain.Document, error)
	ListByPage(ctx context.Context, pageID string) ([]domain.Document, error)
	HardDelete(ctx context.Context, documentID string) error
}

// ObjectStore is the S3-backed blob storage for document content.
type ObjectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (int64, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service manages private pages, their share links and their documents.
type Service interface {
	Create(ctx context.Context, req domain.CreatePageRequest, doctorID string) (*domain.PrivatePage, error)
	Get(ctx context.Context, pageID string) (*domain.PrivatePage, error)
	List(ctx context.Context) ([]domain.PrivatePage, error)
	Disable(ctx context.Context, pageID string) error

	// ShareLink texts the patient a link to the page's OTP challenge and
	// records the message. A failed message log does not fail the send.
	ShareLink(ctx context.Context, pageID string, req domain.ShareLinkRequest, doctorID, baseURL string) error
	ListMessages(ctx context.Context, doctorID string) ([]domain.Message, error)

	UploadDocument(ctx context.Context, pageID string, req domain.UploadDocumentRequest) (*domain.Document, error)
	ListDocuments(ctx context.Context, pageID string) ([]domain.Document, error)
	DocumentURL(ctx context.Context, documentID string) (string, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

type Deps struct {
	PageRepo     PageStore
	MessageRepo  MessageStore
	DocumentRepo DocumentStore
	Objects      ObjectStore
	SMSSender    sns.SMSSender
}

type service struct {
	pageRepo     PageStore
	messageRepo  MessageStore
	documentRepo DocumentStore
	objects      ObjectStore
	smsSender    sns.SMSSender
}

func NewService(deps Deps) Service {
	return &service{
		pageRepo:     deps.PageRepo,
		messageRepo:  deps.MessageRepo,
		documentRepo: deps.DocumentRepo,
		objects:      deps.Objects,
		smsSender:    deps.SMSSender,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreatePageRequest, doctorID string) (*domain.PrivatePage, error) {
	now := time.Now().UTC()
	p := &domain.PrivatePage{
		PageID:      id.New(),
		PatientName: req.PatientName,
		Phone:       formatPhone(req.Phone),
		DoctorID:    doctorID,
		Enable:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.pageRepo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, pageID string) (*domain.PrivatePage, error) {
	p, err := s.pageRepo.Get(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if !p.Enable {
		return nil, fmt.Errorf("private page disabled: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (s *service) List(ctx context.Context) ([]domain.PrivatePage, error) {
	return s.pageRepo.Scan(ctx)
}

func (s *service) Disable(ctx context.Context, pageID string) error {
	if _, err := s.pageRepo.Get(ctx, pageID); err != nil {
		return err
	}
	return s.pageRepo.SoftDelete(ctx, pageID)
}

func (s *service) ShareLink(ctx context.Context, pageID string, req domain.ShareLinkRequest, doctorID, baseURL string) error {
	if _, err := s.Get(ctx, pageID); err != nil {
		return err
	}

	to := formatPhone(req.Phone)
	link := fmt.Sprintf("%s/private-page-patient/%s/auth", strings.TrimSuffix(baseURL, "/"), pageID)
	body := fmt.Sprintf("Hi %s! Your personalized medical information page is ready. Access it here: %s", req.PatientName, link)

	if err := s.smsSender.SendSMS(ctx, to, body); err != nil {
		return fmt.Errorf("send page link to %s: %w", to, err)
	}

	msg := &domain.Message{
		MessageID:     id.New(),
		DoctorID:      doctorID,
		Recipient:     to,
		RecipientName: req.PatientName,
		Body:          body,
		SentAt:        time.Now().UTC(),
	}
	if err := s.messageRepo.Put(ctx, msg); err != nil {
		// The SMS already went out; losing the log entry is not worth a 500.
		slog.Warn("failed to record sent message", "doctor_id", doctorID, "err", err)
	}
	return nil
}

func (s *service) ListMessages(ctx context.Context, doctorID string) ([]domain.Message, error) {
	return s.messageRepo.ListByDoctor(ctx, doctorID)
}

func (s *service) UploadDocument(ctx context.Context, pageID string, req domain.UploadDocumentRequest) (*domain.Document, error) {
	if _, err := s.Get(ctx, pageID); err != nil {
		return nil, err
	}

	docID := id.New()
	key := fmt.Sprintf("%s/%s/%s", pageID, docID, req.FileName)
	size, err := s.objects.UploadBase64(ctx, key, req.Data)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	d := &domain.Document{
		DocumentID: docID,
		PageID:     pageID,
		FileName:   req.FileName,
		S3Key:      key,
		SizeBytes:  size,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.documentRepo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) ListDocuments(ctx context.Context, pageID string) ([]domain.Document, error) {
	return s.documentRepo.ListByPage(ctx, pageID)
}

func (s *service) DocumentURL(ctx context.Context, documentID string) (string, error) {
	d, err := s.documentRepo.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	return s.objects.PresignedURL(ctx, d.S3Key, presignTTL)
}

func (s *service) DeleteDocument(ctx context.Context, documentID string) error {
	d, err := s.documentRepo.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, d.S3Key); err != nil {
		return fmt.Errorf("delete document object: %w", err)
	}
	return s.documentRepo.HardDelete(ctx, documentID)
}

// formatPhone normalises US numbers the way share links have always been
// sent: a +1 prefix is assumed when no country code is present.
func formatPhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+1" + phone
}
