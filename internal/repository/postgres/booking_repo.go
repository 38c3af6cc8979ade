package postgres

import (
	"context"

	"confbooking/internal/domain"
)

type bookingRepository struct {
	DB DBTX
}

// NewBookingRepository returns a BookingRepository over db, which may be a
// *sql.DB or a transaction.
func NewBookingRepository(db DBTX) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

func (r *bookingRepository) CreateOrder(ctx context.Context, orderID string) error {
	query := `INSERT INTO orders (id, created_at) VALUES ($1, NOW())`
	_, err := r.DB.ExecContext(ctx, query, orderID)
	return err
}

func (r *bookingRepository) AddBooking(ctx context.Context, conferenceID, userID int64, orderID string) (int64, error) {
	query := `
		INSERT INTO conferences_booking (conference_id, user_id, order_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var bookingID int64
	if err := r.DB.QueryRowContext(ctx, query, conferenceID, userID, orderID).Scan(&bookingID); err != nil {
		return 0, err
	}
	return bookingID, nil
}

func (r *bookingRepository) AddOptional(ctx context.Context, bookingID int64, sel domain.OptionalSelection) error {
	query := `
		INSERT INTO booking_optionals (booking_id, optional_id, quantity)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, bookingID, sel.OptionalID, sel.Quantity)
	return err
}

func (r *bookingRepository) AddWorkshop(ctx context.Context, bookingID, workshopID int64) error {
	query := `
		INSERT INTO booking_workshops (booking_id, workshop_id)
		VALUES ($1, $2)
	`
	_, err := r.DB.ExecContext(ctx, query, bookingID, workshopID)
	return err
}
