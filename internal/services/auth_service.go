package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"spendtrack/internal/authz"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories"
)

var (
	ErrIdentityTaken      = errors.New("email or mobile already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNotVerified        = errors.New("account not verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDispatchFailed     = errors.New("could not issue verification code")
)

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(h), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// AuthService orchestrates registration, login, password reset and
// password change over the account store and the OTP ledger.
type AuthService struct {
	accounts repositories.AccountRepository
	otp      *OTPService
	emails   EmailService
	sms      SMSService
}

func NewAuthService(accounts repositories.AccountRepository, otp *OTPService, emails EmailService, sms SMSService) *AuthService {
	return &AuthService{accounts: accounts, otp: otp, emails: emails, sms: sms}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dispatchCode sends the code over every available channel and fails
// only when none of them got through. The ledger row is already written
// by then; an undelivered code simply waits for a resend to replace it.
func (s *AuthService) dispatchCode(email, mobile, code string) error {
	delivered := false
	if s.emails != nil {
		if err := s.emails.SendOTPEmail(email, code); err != nil {
			log.Printf("[auth][dispatch] email to %s failed: %v", email, err)
		} else {
			delivered = true
		}
	}
	if s.sms != nil && mobile != "" {
		if err := s.sms.SendOTP(mobile, code); err != nil {
			log.Printf("[auth][dispatch] sms to %s failed: %v", mobile, err)
		} else {
			delivered = true
		}
	}
	if !delivered {
		return ErrDispatchFailed
	}
	return nil
}

// RequestRegistration starts the signup flow: reject identities already
// held by a verified account, then park the (hashed) registration data
// on a fresh challenge. Calling it again before verification silently
// replaces the previous code.
func (s *AuthService) RequestRegistration(name, email, mobile, password string) error {
	email = normalizeEmail(email)

	taken, err := s.accounts.IdentityTaken(email, mobile)
	if err != nil {
		return err
	}
	if taken {
		return ErrIdentityTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	code, err := s.otp.Issue(email, models.PurposeRegister, &models.PendingSignup{
		Name:         name,
		Mobile:       mobile,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	return s.dispatchCode(email, mobile, code)
}

// VerifyRegistration consumes the challenge and creates the account from
// its pending payload. A concurrent duplicate slips past the ledger only
// as far as the unique constraint, which surfaces here as ErrIdentityTaken.
func (s *AuthService) VerifyRegistration(email, code string) (*models.Account, error) {
	email = normalizeEmail(email)

	ch, err := s.otp.Verify(email, code)
	if err != nil {
		return nil, err
	}
	if ch.Purpose != models.PurposeRegister || ch.Pending == nil {
		return nil, ErrCodeNotFound
	}

	acc := &models.Account{
		Name:         ch.Pending.Name,
		Email:        email,
		Mobile:       ch.Pending.Mobile,
		PasswordHash: ch.Pending.PasswordHash,
		Role:         authz.RoleUser,
		IsVerified:   true,
		Permissions:  models.DefaultUserPermissions(),
	}
	if err := s.accounts.Create(acc); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrIdentityTaken
		}
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(acc.Email, acc.Name); err != nil {
			log.Printf("[auth][verify] welcome email to %s failed: %v", acc.Email, err)
		}
	}
	return acc, nil
}

// Resend regenerates the pending challenge's code in place and sends it
// again. ErrCodeNotFound when nothing is pending.
func (s *AuthService) Resend(email string) error {
	email = normalizeEmail(email)

	code, ch, err := s.otp.Reissue(email)
	if err != nil {
		return err
	}
	mobile := ""
	if ch.Pending != nil {
		mobile = ch.Pending.Mobile
	}
	return s.dispatchCode(email, mobile, code)
}

// Login authenticates by email-or-mobile identifier. The caller issues
// the session token; this only vouches for the account.
func (s *AuthService) Login(identifier, password string) (*models.Account, error) {
	identifier = strings.TrimSpace(identifier)

	acc, err := s.accounts.GetByIdentifier(normalizeEmail(identifier))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	if !acc.IsVerified {
		return nil, ErrNotVerified
	}
	if !CheckPassword(acc.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

// RequestReset never reveals whether the email exists: it returns nil
// either way and only issues a code for a real account.
func (s *AuthService) RequestReset(email string) error {
	email = normalizeEmail(email)

	acc, err := s.accounts.GetByEmail(email)
	if err != nil {
		log.Printf("[auth][reset] lookup for %q failed: %v", email, err)
		return nil
	}
	if acc == nil {
		log.Printf("[auth][reset] request for unknown email %q", email)
		return nil
	}

	code, err := s.otp.Issue(email, models.PurposeReset, nil)
	if err != nil {
		log.Printf("[auth][reset] issue for %q failed: %v", email, err)
		return nil
	}
	if s.emails != nil {
		if err := s.emails.SendOTPEmail(email, code); err != nil {
			log.Printf("[auth][reset] email to %s failed: %v", email, err)
		}
	}
	return nil
}

func (s *AuthService) ConfirmReset(email, code, newPassword string) error {
	email = normalizeEmail(email)

	ch, err := s.otp.Verify(email, code)
	if err != nil {
		return err
	}
	if ch.Purpose != models.PurposeReset {
		return ErrCodeNotFound
	}

	acc, err := s.accounts.GetByEmail(email)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(acc.ID, hash)
}

func (s *AuthService) ChangePassword(accountID int, currentPassword, newPassword string) error {
	acc, err := s.accounts.GetByID(accountID)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	if !CheckPassword(acc.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(acc.ID, hash)
}
