package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"confbooking/internal/domain"
)

type conferenceRepository struct {
	DB *sql.DB
}

// NewConferenceRepository returns a ConferenceRepository backed by Postgres.
func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	query := `
		INSERT INTO conferences (title, description, image, price, active, date_start, date_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query, c.Title, c.Description, c.Image, c.Price, c.Active, c.DateStart, c.DateEnd).Scan(&c.ID)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert conference: %w", err)
	}

	for _, w := range c.Workshops {
		if err := insertWorkshop(ctx, tx, c.ID, w); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert workshop: %w", err)
		}
	}
	for _, o := range c.Optionals {
		if err := insertOptional(ctx, tx, c.ID, o); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert optional: %w", err)
		}
	}

	return tx.Commit()
}

func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	query := `
		UPDATE conferences
		SET title = $1, description = $2, image = $3, price = $4, active = $5, date_start = $6, date_end = $7
		WHERE id = $8
	`
	if _, err := tx.ExecContext(ctx, query, c.Title, c.Description, c.Image, c.Price, c.Active, c.DateStart, c.DateEnd, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update conference: %w", err)
	}

	if err := r.reconcileOptionals(ctx, tx, id, c.Optionals); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("reconcile optionals: %w", err)
	}
	if err := r.reconcileWorkshops(ctx, tx, id, c.Workshops); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("reconcile workshops: %w", err)
	}

	return tx.Commit()
}

// reconcileWorkshops makes the stored workshop set equal the submitted one:
// items without an id are inserted, items with an id are updated, and rows
// whose id was not seen are deleted. The delete runs last so freshly
// inserted rows survive.
func (r *conferenceRepository) reconcileWorkshops(ctx context.Context, tx *sql.Tx, conferenceID int64, workshops []*domain.Workshop) error {
	keep := make([]int64, 0, len(workshops))
	for _, w := range workshops {
		if w.ID == 0 {
			if err := insertWorkshop(ctx, tx, conferenceID, w); err != nil {
				return err
			}
		} else {
			query := `UPDATE conferences_workshops SET title = $1 WHERE conference_id = $2 AND id = $3`
			if _, err := tx.ExecContext(ctx, query, w.Title, conferenceID, w.ID); err != nil {
				return err
			}
		}
		keep = append(keep, w.ID)
	}
	query := `DELETE FROM conferences_workshops WHERE conference_id = $1 AND NOT (id = ANY($2))`
	_, err := tx.ExecContext(ctx, query, conferenceID, pq.Array(keep))
	return err
}

func (r *conferenceRepository) reconcileOptionals(ctx context.Context, tx *sql.Tx, conferenceID int64, optionals []*domain.Optional) error {
	keep := make([]int64, 0, len(optionals))
	for _, o := range optionals {
		if o.ID == 0 {
			if err := insertOptional(ctx, tx, conferenceID, o); err != nil {
				return err
			}
		} else {
			query := `UPDATE conferences_optionals SET title = $1, price = $2 WHERE conference_id = $3 AND id = $4`
			if _, err := tx.ExecContext(ctx, query, o.Title, o.Price, conferenceID, o.ID); err != nil {
				return err
			}
		}
		keep = append(keep, o.ID)
	}
	query := `DELETE FROM conferences_optionals WHERE conference_id = $1 AND NOT (id = ANY($2))`
	_, err := tx.ExecContext(ctx, query, conferenceID, pq.Array(keep))
	return err
}

func insertWorkshop(ctx context.Context, tx *sql.Tx, conferenceID int64, w *domain.Workshop) error {
	query := `
		INSERT INTO conferences_workshops (conference_id, title)
		VALUES ($1, $2)
		RETURNING id
	`
	return tx.QueryRowContext(ctx, query, conferenceID, w.Title).Scan(&w.ID)
}

func insertOptional(ctx context.Context, tx *sql.Tx, conferenceID int64, o *domain.Optional) error {
	query := `
		INSERT INTO conferences_optionals (conference_id, title, price)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return tx.QueryRowContext(ctx, query, conferenceID, o.Title, o.Price).Scan(&o.ID)
}

func (r *conferenceRepository) GetByID(ctx context.Context, id int64) (*domain.Conference, error) {
	query := `
		SELECT id, title, description, image, price, active, date_start, date_end
		FROM conferences
		WHERE id = $1
	`
	c := &domain.Conference{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Image, &c.Price, &c.Active, &c.DateStart, &c.DateEnd,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if c.Workshops, err = r.workshopsByConferenceID(ctx, id); err != nil {
		return nil, err
	}
	if c.Optionals, err = r.optionalsByConferenceID(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetActive(ctx context.Context) (*domain.Conference, error) {
	// First match wins; active uniqueness is by convention, not constraint.
	query := `
		SELECT id, title, description, image, price, active, date_start, date_end
		FROM conferences
		WHERE active = true
		ORDER BY id
		LIMIT 1
	`
	c := &domain.Conference{}
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&c.ID, &c.Title, &c.Description, &c.Image, &c.Price, &c.Active, &c.DateStart, &c.DateEnd,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) List(ctx context.Context) ([]*domain.Conference, error) {
	query := `
		SELECT id, title, description, image, price, active, date_start, date_end
		FROM conferences
		ORDER BY date_start DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conferences := make([]*domain.Conference, 0)
	for rows.Next() {
		c := &domain.Conference{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Image, &c.Price, &c.Active, &c.DateStart, &c.DateEnd); err != nil {
			return nil, err
		}
		conferences = append(conferences, c)
	}
	return conferences, rows.Err()
}

func (r *conferenceRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM conferences WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *conferenceRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Conference, error) {
	query := `
		SELECT conference_id
		FROM conferences_booking
		WHERE order_id = $1
		LIMIT 1
	`
	var conferenceID int64
	err := r.DB.QueryRowContext(ctx, query, orderID).Scan(&conferenceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, conferenceID)
}

func (r *conferenceRepository) workshopsByConferenceID(ctx context.Context, conferenceID int64) ([]*domain.Workshop, error) {
	query := `
		SELECT id, title
		FROM conferences_workshops
		WHERE conference_id = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workshops := make([]*domain.Workshop, 0)
	for rows.Next() {
		w := &domain.Workshop{}
		if err := rows.Scan(&w.ID, &w.Title); err != nil {
			return nil, err
		}
		workshops = append(workshops, w)
	}
	return workshops, rows.Err()
}

func (r *conferenceRepository) optionalsByConferenceID(ctx context.Context, conferenceID int64) ([]*domain.Optional, error) {
	query := `
		SELECT id, title, price
		FROM conferences_optionals
		WHERE conference_id = $1
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	optionals := make([]*domain.Optional, 0)
	for rows.Next() {
		o := &domain.Optional{}
		if err := rows.Scan(&o.ID, &o.Title, &o.Price); err != nil {
			return nil, err
		}
		optionals = append(optionals, o)
	}
	return optionals, rows.Err()
}
