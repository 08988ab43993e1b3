package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	db *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository
func NewPostgresProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetByUserID retrieves the business profile for a user. A missing row maps
// to domain.ErrNotFound.
func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	query := `
		SELECT user_id, company_name, COALESCE(gst_number, ''), billing_address, email, phone,
		       COALESCE(bank_name, ''), COALESCE(bank_account_number, ''),
		       COALESCE(bank_ifsc_code, ''), COALESCE(bank_branch, ''),
		       COALESCE(company_logo_url, ''), COALESCE(upi_qr_code_url, ''),
		       COALESCE(signature_url, ''), updated_at
		FROM business_profiles
		WHERE user_id = $1
	`

	profile := &domain.BusinessProfile{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.CompanyName,
		&profile.GSTNumber,
		&profile.BillingAddress,
		&profile.Email,
		&profile.Phone,
		&profile.BankName,
		&profile.BankAccountNumber,
		&profile.BankIFSCCode,
		&profile.BankBranch,
		&profile.CompanyLogoURL,
		&profile.UPIQRCodeURL,
		&profile.SignatureURL,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}

	return profile, nil
}

// Upsert inserts or overwrites the profile keyed by user_id
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *domain.BusinessProfile) error {
	query := `
		INSERT INTO business_profiles (
			user_id, company_name, gst_number, billing_address, email, phone,
			bank_name, bank_account_number, bank_ifsc_code, bank_branch,
			company_logo_url, upi_qr_code_url, signature_url, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			gst_number = EXCLUDED.gst_number,
			billing_address = EXCLUDED.billing_address,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			bank_name = EXCLUDED.bank_name,
			bank_account_number = EXCLUDED.bank_account_number,
			bank_ifsc_code = EXCLUDED.bank_ifsc_code,
			bank_branch = EXCLUDED.bank_branch,
			company_logo_url = EXCLUDED.company_logo_url,
			upi_qr_code_url = EXCLUDED.upi_qr_code_url,
			signature_url = EXCLUDED.signature_url,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		profile.UserID,
		profile.CompanyName,
		profile.GSTNumber,
		profile.BillingAddress,
		profile.Email,
		profile.Phone,
		profile.BankName,
		profile.BankAccountNumber,
		profile.BankIFSCCode,
		profile.BankBranch,
		profile.CompanyLogoURL,
		profile.UPIQRCodeURL,
		profile.SignatureURL,
	).Scan(&profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert business profile: %w", err)
	}

	return nil
}
