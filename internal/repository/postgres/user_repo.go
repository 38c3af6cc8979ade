package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"confbooking/internal/domain"
)

type userRepository struct {
	DB DBTX
}

// NewUserRepository returns a UserRepository over db, which may be a *sql.DB
// or a transaction.
func NewUserRepository(db DBTX) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, name, surname, phone, password_hash, salt, privacy_policy, company_id, membership, profile_name, founder, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	companyID := sql.NullInt64{Int64: u.CompanyID, Valid: u.CompanyID != 0}
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.Name, u.Surname, u.Phone, u.PasswordHash, u.Salt,
		u.PrivacyPolicy, companyID, u.Membership, u.Profile, u.Founder,
		u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, surname, phone, password_hash, salt, privacy_policy, company_id, membership, profile_name, founder, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, email, name, surname, phone, password_hash, salt, privacy_policy, company_id, membership, profile_name, founder, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) CompanyIDByUserID(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT company_id FROM users WHERE id = $1`
	var companyID sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, err
	}
	return companyID.Int64, nil
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var phone sql.NullString
	var companyID sql.NullInt64
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Surname, &phone, &u.PasswordHash, &u.Salt,
		&u.PrivacyPolicy, &companyID, &u.Membership, &u.Profile, &u.Founder,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Phone = phone.String
	u.CompanyID = companyID.Int64
	return u, nil
}
