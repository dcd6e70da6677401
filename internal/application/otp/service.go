package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/smtp"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/infrastructure/sns"
	"golang.org/x/crypto/bcrypt"
)

// Store holds the single active code per identifier. Put overwrites any
// prior record (last code issued wins). Implementations: MemoryStore for
// a single instance, dynamo.OTPRepo for shared deployments.
type Store interface {
	Put(ctx context.Context, c *domain.OTPCode) error
	Get(ctx context.Context, identifier string) (*domain.OTPCode, error)
	Delete(ctx context.Context, identifier string) error
}

// Service issues and verifies one-time codes for private-page access.
type Service interface {
	// Issue generates a fresh 6-digit code for the identifier, stores it
	// (invalidating any earlier code) and dispatches it by SMS, or by
	// email when the identifier contains '@'.
	Issue(ctx context.Context, identifier string) error
	// Verify consumes the stored code on an exact match. Never issued,
	// expired and wrong code all return ErrUnauthorized so callers can't
	// probe issuance state.
	Verify(ctx context.Context, identifier, code string) error
}

type Deps struct {
	Store     Store
	SMSSender sns.SMSSender
	Mailer    smtp.Mailer
	TTL       time.Duration
}

type service struct {
	store     Store
	smsSender sns.SMSSender
	mailer    smtp.Mailer
	ttl       time.Duration
}

func NewService(deps Deps) Service {
	return &service{
		store:     deps.Store,
		smsSender: deps.SMSSender,
		mailer:    deps.Mailer,
		ttl:       deps.TTL,
	}
}

func (s *service) Issue(ctx context.Context, identifier string) error {
	if identifier == "" {
		return fmt.Errorf("identifier required: %w", domain.ErrBadRequest)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Store before dispatch, matching issuance order: a failed send leaves
	// the code pending and a retry simply overwrites it.
	now := time.Now().UTC()
	rec := &domain.OTPCode{
		Identifier: identifier,
		CodeHash:   string(hash),
		ExpiresAt:  now.Add(s.ttl).Unix(),
		CreatedAt:  now,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return err
	}

	if strings.Contains(identifier, "@") {
		return s.mailer.SendEmail(identifier, "Your verification code", "Your verification code is "+code)
	}
	return s.smsSender.SendSMS(ctx, identifier, "Your verification code is "+code)
}

func (s *service) Verify(ctx context.Context, identifier, code string) error {
	rec, err := s.store.Get(ctx, identifier)
	if err != nil {
		return fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
	}
	if rec.ExpiresAt < time.Now().Unix() {
		if err := s.store.Delete(ctx, identifier); err != nil {
			slog.Warn("failed to delete expired otp code", "identifier", identifier, "err", err)
		}
		return fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		return fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
	}
	// Consumption is part of the contract: a code that can't be deleted
	// must not be reported as verified, or it would be replayable.
	if err := s.store.Delete(ctx, identifier); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

// generateCode returns a uniform 6-digit decimal code in [100000, 999999],
// so the leading digit is never zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}
