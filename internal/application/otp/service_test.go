package otp

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// captureSender records outbound SMS bodies so tests can read back the code.
type captureSender struct {
	mu       sync.Mutex
	sent     []string
	lastTo   string
	sendErr  error
	numCalls int
}

func (c *captureSender) SendSMS(_ context.Context, to, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.numCalls++
	if c.sendErr != nil {
		return c.sendErr
	}
	c.lastTo = to
	c.sent = append(c.sent, message)
	return nil
}

var codeRe = regexp.MustCompile(`\d{6}`)

func (c *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)
	code := codeRe.FindString(c.sent[len(c.sent)-1])
	require.Len(t, code, 6)
	return code
}

type captureMailer struct {
	to   string
	body string
}

func (c *captureMailer) SendEmail(to, _, body string) error {
	c.to = to
	c.body = body
	return nil
}

func newTestService(sms *captureSender, ttl time.Duration) (Service, *MemoryStore) {
	store := NewMemoryStore()
	svc := NewService(Deps{Store: store, SMSSender: sms, Mailer: &captureMailer{}, TTL: ttl})
	return svc, store
}

// --- Issue ---

func TestIssue_EmptyIdentifier(t *testing.T) {
	svc, _ := newTestService(&captureSender{}, 5*time.Minute)
	err := svc.Issue(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestIssue_GatewayFailurePropagates(t *testing.T) {
	sms := &captureSender{sendErr: errors.New("sns: throttled")}
	svc, _ := newTestService(sms, 5*time.Minute)

	err := svc.Issue(context.Background(), "+15551234567")
	require.Error(t, err)
	assert.Equal(t, 1, sms.numCalls)
}

func TestIssue_EmailIdentifier_GoesViaMailer(t *testing.T) {
	sms := &captureSender{}
	store := NewMemoryStore()
	ml := &captureMailer{}
	svc := NewService(Deps{Store: store, SMSSender: sms, Mailer: ml, TTL: 5 * time.Minute})

	require.NoError(t, svc.Issue(context.Background(), "patient@example.com"))
	assert.Equal(t, "patient@example.com", ml.to)
	assert.Equal(t, 0, sms.numCalls)
	assert.Len(t, codeRe.FindString(ml.body), 6)
}

func TestIssue_CodeFormat(t *testing.T) {
	sms := &captureSender{}
	svc, _ := newTestService(sms, 5*time.Minute)

	for i := 0; i < 20; i++ {
		require.NoError(t, svc.Issue(context.Background(), "+15551234567"))
	}
	for _, msg := range sms.sent {
		code := codeRe.FindString(msg)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code[0], byte('1'), "leading digit must never be zero: %s", code)
		assert.LessOrEqual(t, code[0], byte('9'))
	}
}

// --- Verify ---

func TestVerify_BeforeIssue_GenericFailure(t *testing.T) {
	svc, _ := newTestService(&captureSender{}, 5*time.Minute)
	err := svc.Verify(context.Background(), "+15551234567", "123456")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerify_SucceedsExactlyOnce(t *testing.T) {
	sms := &captureSender{}
	svc, _ := newTestService(sms, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "+15551234567"))
	code := sms.lastCode(t)

	require.NoError(t, svc.Verify(ctx, "+15551234567", code))

	// Replaying the consumed code must fail.
	err := svc.Verify(ctx, "+15551234567", code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerify_WrongCode(t *testing.T) {
	sms := &captureSender{}
	svc, _ := newTestService(sms, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "+15551234567"))
	err := svc.Verify(ctx, "+15551234567", "000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	// The wrong attempt must not consume the pending code.
	require.NoError(t, svc.Verify(ctx, "+15551234567", sms.lastCode(t)))
}

func TestVerify_ReissueInvalidatesFirstCode(t *testing.T) {
	sms := &captureSender{}
	svc, _ := newTestService(sms, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "+15551234567"))
	first := sms.lastCode(t)
	require.NoError(t, svc.Issue(ctx, "+15551234567"))
	second := sms.lastCode(t)

	if first != second {
		err := svc.Verify(ctx, "+15551234567", first)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	}
	require.NoError(t, svc.Verify(ctx, "+15551234567", second))
}

func TestVerify_ExpiredCode(t *testing.T) {
	sms := &captureSender{}
	// Negative TTL: every issued code is already expired.
	svc, store := newTestService(sms, -time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "+15551234567"))
	code := sms.lastCode(t)

	err := svc.Verify(ctx, "+15551234567", code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	// Check-on-read removed the stale record.
	_, err = store.Get(ctx, "+15551234567")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerify_DifferentIdentifiersAreIsolated(t *testing.T) {
	sms := &captureSender{}
	svc, _ := newTestService(sms, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "+15550000001"))
	codeA := sms.lastCode(t)
	require.NoError(t, svc.Issue(ctx, "+15550000002"))
	codeB := sms.lastCode(t)

	if codeA != codeB {
		err := svc.Verify(ctx, "+15550000002", codeA)
		require.Error(t, err)
	}
	require.NoError(t, svc.Verify(ctx, "+15550000001", codeA))
	require.NoError(t, svc.Verify(ctx, "+15550000002", codeB))
}
