package postgres

import (
	"context"
	"database/sql"

	"confbooking/internal/domain"
)

type priceRepository struct {
	DB *sql.DB
}

// NewPriceRepository returns a PriceRepository over the static price table.
func NewPriceRepository(db *sql.DB) domain.PriceRepository {
	return &priceRepository{DB: db}
}

func (r *priceRepository) List(ctx context.Context) ([]*domain.PriceRule, error) {
	query := `
		SELECT code, price
		FROM prices
		ORDER BY code
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*domain.PriceRule, 0)
	for rows.Next() {
		p := &domain.PriceRule{}
		if err := rows.Scan(&p.Code, &p.Price); err != nil {
			return nil, err
		}
		rules = append(rules, p)
	}
	return rules, rows.Err()
}
