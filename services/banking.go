package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/LovationAdmin/horizon-api/models"
	"github.com/LovationAdmin/horizon-api/utils"

	"github.com/google/uuid"
)

// BankingService stores linked banks and internal transfers. Access tokens
// are encrypted at rest and decrypted on read.
type BankingService struct {
	db *sql.DB
}

func NewBankingService(db *sql.DB) *BankingService {
	return &BankingService{db: db}
}

// SaveBanks stores one row per linked account of a freshly exchanged item.
func (s *BankingService) SaveBanks(ctx context.Context, userID, itemID, accessToken string, accountIDs []string) ([]models.BankLink, error) {
	encrypted, err := utils.Encrypt([]byte(accessToken))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	var banks []models.BankLink
	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		for _, accountID := range accountIDs {
			bank := models.BankLink{
				ID:          uuid.New().String(),
				UserID:      userID,
				ItemID:      itemID,
				AccountID:   accountID,
				ShareableID: utils.EncodeShareableID(accountID),
			}
			query := `
				INSERT INTO bank_links (id, user_id, item_id, account_id, access_token, shareable_id)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (user_id, account_id)
				DO UPDATE SET item_id = EXCLUDED.item_id, access_token = EXCLUDED.access_token
				RETURNING id, created_at
			`
			if err := tx.QueryRowContext(ctx, query,
				bank.ID, bank.UserID, bank.ItemID, bank.AccountID, encrypted, bank.ShareableID,
			).Scan(&bank.ID, &bank.CreatedAt); err != nil {
				return err
			}
			bank.AccessToken = accessToken
			banks = append(banks, bank)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save banks: %w", err)
	}

	utils.LogBankingAction("Banks linked", itemID, userID)
	return banks, nil
}

// GetBanks lists a user's linked banks, oldest first.
func (s *BankingService) GetBanks(ctx context.Context, userID string) ([]models.BankLink, error) {
	query := `
		SELECT id, user_id, item_id, account_id, access_token, shareable_id, created_at
		FROM bank_links
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []models.BankLink
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, err
		}
		banks = append(banks, *bank)
	}
	return banks, rows.Err()
}

// GetBank returns the bank with the given linkage id, or ErrAccountNotFound.
func (s *BankingService) GetBank(ctx context.Context, linkageID string) (*models.BankLink, error) {
	query := `
		SELECT id, user_id, item_id, account_id, access_token, shareable_id, created_at
		FROM bank_links
		WHERE id = $1
	`
	bank, err := scanBank(s.db.QueryRowContext(ctx, query, linkageID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return bank, err
}

// ListTransfers returns internal transfers sent or received by a bank.
func (s *BankingService) ListTransfers(ctx context.Context, bankID string) ([]models.Transfer, error) {
	query := `
		SELECT id, name, amount, channel, category, sender_bank_id, receiver_bank_id, email, created_at
		FROM transfers
		WHERE sender_bank_id = $1 OR receiver_bank_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, bankID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Amount, &t.Channel, &t.Category,
			&t.SenderBankID, &t.ReceiverBankID, &t.Email, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBank(row rowScanner) (*models.BankLink, error) {
	var bank models.BankLink
	var encrypted string
	if err := row.Scan(
		&bank.ID, &bank.UserID, &bank.ItemID, &bank.AccountID,
		&encrypted, &bank.ShareableID, &bank.CreatedAt,
	); err != nil {
		return nil, err
	}

	token, err := utils.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token for bank %s: %w", utils.MaskID(bank.ID), err)
	}
	bank.AccessToken = string(token)
	return &bank, nil
}
