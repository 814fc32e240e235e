package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/fixit-helpdesk/fixit/internal/config"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/internal/notify"
	"github.com/fixit-helpdesk/fixit/internal/store"
	"github.com/fixit-helpdesk/fixit/internal/utils"
	"github.com/fixit-helpdesk/fixit/models"
)

const (
	otpCodeLength      = 6
	otpMaxAttempts     = 3
	defaultOTPTTL      = 5 * time.Minute
	defaultOTPSweep    = time.Minute
	otpDeliverySubject = "Your FixIT login code"
)

// otpEntry is one issued code. Only the SHA-256 digest of the code is kept
// in memory.
type otpEntry struct {
	codeDigest string
	userID     string
	expiresAt  time.Time
	attempts   int
}

// otpService is the concrete implementation of OTPService. Codes live in an
// in-memory map guarded by a mutex; a background sweep evicts expired
// entries so the map does not grow with abandoned login attempts.
type otpService struct {
	mu      sync.Mutex
	entries map[string]otpEntry

	userRepository store.UserRepository
	notifier       notify.Notifier

	ttl           time.Duration
	sweepInterval time.Duration

	done chan struct{}

	logger *logger.Logger
}

// NewOTPService constructs an OTPService. Call Run to start the eviction
// sweep and Close to stop it.
func NewOTPService(userRepository store.UserRepository, notifier notify.Notifier, cfg config.App, logger *logger.Logger) *otpService {
	ttl := cfg.OTPTTL
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	sweepInterval := cfg.OTPSweepInterval
	if sweepInterval <= 0 {
		sweepInterval = defaultOTPSweep
	}

	return &otpService{
		entries:        make(map[string]otpEntry),
		userRepository: userRepository,
		notifier:       notifier,
		ttl:            ttl,
		sweepInterval:  sweepInterval,
		done:           make(chan struct{}),
		logger:         logger,
	}
}

// Request implements [OTPService]. A fresh request replaces any code still
// pending for the same email.
func (o *otpService) Request(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrInvalidDataProvided
	}

	user, err := o.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("otp requested for unknown email")
		return fmt.Errorf("user search by email failed: %w", err)
	}
	if !user.Active {
		return ErrAccountDisabled
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("otp code generation failed: %w", err)
	}

	o.mu.Lock()
	o.entries[email] = otpEntry{
		codeDigest: utils.HashOTPCode(code),
		userID:     user.ID,
		expiresAt:  time.Now().Add(o.ttl),
	}
	o.mu.Unlock()

	o.notifier.Enqueue(notify.Notification{
		Channel:   notify.ChannelEmail,
		Recipient: email,
		Subject:   otpDeliverySubject,
		Body:      fmt.Sprintf("Your one-time login code is %s. It expires in %s.", code, o.ttl),
	})

	log.Info().Str("email", email).Msg("one-time code issued")
	return nil
}

// Verify implements [OTPService]. The code is consumed on success and after
// otpMaxAttempts failures.
func (o *otpService) Verify(ctx context.Context, email, code string) (models.User, error) {
	log := logger.FromContext(ctx)

	if email == "" || code == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	o.mu.Lock()
	entry, ok := o.entries[email]
	if !ok {
		o.mu.Unlock()
		return models.User{}, ErrOTPNotFound
	}

	if time.Now().After(entry.expiresAt) {
		delete(o.entries, email)
		o.mu.Unlock()
		return models.User{}, ErrOTPExpired
	}

	if utils.HashOTPCode(code) != entry.codeDigest {
		entry.attempts++
		if entry.attempts >= otpMaxAttempts {
			delete(o.entries, email)
			o.mu.Unlock()
			log.Error().Str("email", email).Msg("one-time code attempts spent")
			return models.User{}, ErrOTPAttemptsSpent
		}
		o.entries[email] = entry
		o.mu.Unlock()
		return models.User{}, ErrOTPWrongCode
	}

	delete(o.entries, email)
	o.mu.Unlock()

	user, err := o.userRepository.FindUserByID(ctx, entry.userID)
	if err != nil {
		log.Err(err).Str("email", email).Msg("otp verified but user lookup failed")
		return models.User{}, fmt.Errorf("user search failed: %w", err)
	}

	return user, nil
}

// Run implements [workers.Worker]. It starts the background sweep that
// evicts expired codes.
func (o *otpService) Run() {
	go func() {
		ticker := time.NewTicker(o.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-o.done:
				return
			case <-ticker.C:
				o.sweep()
			}
		}
	}()
}

// Close stops the eviction sweep.
func (o *otpService) Close() {
	close(o.done)
}

func (o *otpService) sweep() {
	now := time.Now()

	o.mu.Lock()
	defer o.mu.Unlock()

	for email, entry := range o.entries {
		if now.After(entry.expiresAt) {
			delete(o.entries, email)
		}
	}
}

// generateOTPCode draws a uniformly random numeric code from crypto/rand.
func generateOTPCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpCodeLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", otpCodeLength, n), nil
}
