package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"spendtrack/internal/models"
	"spendtrack/internal/repositories"
	"spendtrack/internal/utils"
)

var (
	ErrCodeNotFound    = errors.New("no pending code")
	ErrCodeExpired     = errors.New("code expired")
	ErrCodeInvalid     = errors.New("code invalid")
	ErrTooManyAttempts = errors.New("too many attempts")
)

const (
	codeTTL            = 5 * time.Minute
	maxConfirmAttempts = 5
)

// OTPService owns the challenge ledger: one live, expiring, attempt-
// limited code per email, consumed exactly once.
type OTPService struct {
	repo repositories.OTPRepository
}

func NewOTPService(repo repositories.OTPRepository) *OTPService {
	return &OTPService{repo: repo}
}

// Issue writes a fresh challenge for the email, replacing any live one
// and invalidating its code. Returns the plaintext code for dispatch;
// only the bcrypt hash is stored.
func (s *OTPService) Issue(email, purpose string, pending *models.PendingSignup) (string, error) {
	code, err := utils.NewOTPCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}

	ch := &models.OTPChallenge{
		Email:     email,
		CodeHash:  string(hash),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(codeTTL),
		Pending:   pending,
	}
	if err := s.repo.Upsert(ch); err != nil {
		return "", err
	}
	return code, nil
}

// Reissue regenerates code, expiry and attempts for an existing
// challenge, keeping its purpose and pending payload. Fails with
// ErrCodeNotFound when nothing is pending for the email.
func (s *OTPService) Reissue(email string) (string, *models.OTPChallenge, error) {
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if existing == nil {
		return "", nil, ErrCodeNotFound
	}
	code, err := s.Issue(email, existing.Purpose, existing.Pending)
	if err != nil {
		return "", nil, err
	}
	return code, existing, nil
}

// Verify applies the ledger rules in order: missing record, expiry,
// attempt counting, code comparison. The sixth attempt against one
// record is terminal and destroys it regardless of the submitted code;
// a match consumes the record so the code is single-use.
func (s *OTPService) Verify(email, code string) (*models.OTPChallenge, error) {
	ch, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrCodeNotFound
	}
	if time.Now().After(ch.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	attempts, err := s.repo.IncrementAttempts(email)
	if err != nil {
		return nil, err
	}
	if attempts > maxConfirmAttempts {
		if err := s.repo.Delete(email); err != nil {
			return nil, err
		}
		return nil, ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
		return nil, ErrCodeInvalid
	}

	if err := s.repo.Delete(email); err != nil {
		return nil, err
	}
	return ch, nil
}
