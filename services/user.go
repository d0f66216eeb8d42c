package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SessionTTL is the lifetime of a refresh-token session.
const SessionTTL = 7 * 24 * time.Hour

type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, address, city, state,
	postal_code, date_of_birth, ssn, COALESCE(totp_secret, ''), totp_enabled, created_at, updated_at`

// CreateUser inserts a new user. The SSN is stored encrypted.
func (s *UserService) CreateUser(ctx context.Context, req models.SignUpRequest, passwordHash string) (*models.User, error) {
	ssn, err := utils.Encrypt([]byte(req.SSN))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt ssn: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		DateOfBirth:  req.DateOfBirth,
		PasswordHash: passwordHash,
	}

	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, address, city, state,
			postal_code, date_of_birth, ssn)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Address,
		user.City, user.State, user.PostalCode, user.DateOfBirth, ssn,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *UserService) CreateSession(ctx context.Context, userID, refreshToken string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), userID, refreshToken, time.Now().Add(SessionTTL))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// DeleteSession removes the refresh-token session owned by userID. Deleting
// an unknown token is not an error.
func (s *UserService) DeleteSession(ctx context.Context, userID, refreshToken string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND refresh_token = $2`,
		userID, refreshToken)
	return err
}

func (s *UserService) SetTOTPSecret(ctx context.Context, userID, secret string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2`,
		secret, userID)
	return err
}

func (s *UserService) EnableTOTP(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1 AND totp_secret IS NOT NULL`,
		userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var ssn string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Address, &u.City, &u.State,
		&u.PostalCode, &u.DateOfBirth, &ssn, &u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if plain, err := utils.Decrypt(ssn); err == nil {
		u.SSN = string(plain)
	}
	return &u, nil
}
