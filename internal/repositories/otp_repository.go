package repositories

import (
	"database/sql"
	"fmt"

	"spendtrack/internal/models"
)

type OTPRepository interface {
	Upsert(ch *models.OTPChallenge) error
	GetByEmail(email string) (*models.OTPChallenge, error)
	IncrementAttempts(email string) (int, error)
	Delete(email string) error
}

type otpRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{DB: db}
}

// Upsert writes the challenge, replacing any live one for the same email
// in a single statement. The replaced code and its attempt count are gone
// the moment this commits.
func (r *otpRepository) Upsert(ch *models.OTPChallenge) error {
	const q = `
		INSERT INTO otp_challenges (
			email, code_hash, purpose, expires_at, attempts,
			pending_name, pending_mobile, pending_password_hash
		)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			purpose = EXCLUDED.purpose,
			expires_at = EXCLUDED.expires_at,
			attempts = 0,
			pending_name = EXCLUDED.pending_name,
			pending_mobile = EXCLUDED.pending_mobile,
			pending_password_hash = EXCLUDED.pending_password_hash,
			created_at = NOW()
	`
	var name, mobile, passwordHash interface{}
	if ch.Pending != nil {
		name = ch.Pending.Name
		mobile = ch.Pending.Mobile
		passwordHash = ch.Pending.PasswordHash
	}
	if _, err := r.DB.Exec(q, ch.Email, ch.CodeHash, ch.Purpose, ch.ExpiresAt, name, mobile, passwordHash); err != nil {
		return fmt.Errorf("otp upsert: %w", err)
	}
	return nil
}

func (r *otpRepository) GetByEmail(email string) (*models.OTPChallenge, error) {
	const q = `
		SELECT email, code_hash, purpose, expires_at, attempts,
		       pending_name, pending_mobile, pending_password_hash, created_at
		FROM otp_challenges
		WHERE email = $1
	`
	ch := &models.OTPChallenge{}
	var name, mobile, passwordHash sql.NullString
	err := r.DB.QueryRow(q, email).Scan(
		&ch.Email, &ch.CodeHash, &ch.Purpose, &ch.ExpiresAt, &ch.Attempts,
		&name, &mobile, &passwordHash, &ch.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("otp lookup: %w", err)
	}
	if name.Valid {
		ch.Pending = &models.PendingSignup{
			Name:         name.String,
			Mobile:       mobile.String,
			PasswordHash: passwordHash.String,
		}
	}
	return ch, nil
}

// IncrementAttempts bumps the counter and returns the new value.
func (r *otpRepository) IncrementAttempts(email string) (int, error) {
	const q = `
		UPDATE otp_challenges
		SET attempts = attempts + 1
		WHERE email = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, email).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("otp increment attempts: %w", err)
	}
	return attempts, nil
}

func (r *otpRepository) Delete(email string) error {
	_, err := r.DB.Exec(`DELETE FROM otp_challenges WHERE email=$1`, email)
	return err
}
