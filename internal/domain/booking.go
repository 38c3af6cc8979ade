package domain

import "context"

// OptionalSelection is a chosen paid add-on within a booking.
type OptionalSelection struct {
	OptionalID int64 `json:"id"`
	Quantity   int   `json:"quantity"`
}

// BookingUser is an account to provision during a booking. Password is empty
// when the caller did not supply one; for an unseen email that aborts the
// whole transaction.
type BookingUser struct {
	Name          string
	Surname       string
	Phone         string
	Email         string
	Password      string
	PrivacyPolicy bool
}

// BookingLine books one user (by email) onto one conference with chosen
// optionals and workshops.
type BookingLine struct {
	ConferenceID int64
	Email        string
	Optionals    []OptionalSelection
	Workshops    []int64
}

// BookingRepository defines storage operations for orders, booking rows, and
// their attachments. All of them run inside the booking transaction.
type BookingRepository interface {
	CreateOrder(ctx context.Context, orderID string) error
	AddBooking(ctx context.Context, conferenceID, userID int64, orderID string) (bookingID int64, err error)
	AddOptional(ctx context.Context, bookingID int64, sel OptionalSelection) error
	AddWorkshop(ctx context.Context, bookingID, workshopID int64) error
}

// TxRepos bundles the repositories that participate in a booking
// transaction, all bound to the same underlying tx.
type TxRepos struct {
	Users    UserRepository
	Bookings BookingRepository
}

// TxManager runs fn inside a single atomic transaction. If fn returns an
// error the transaction rolls back and the error is returned unchanged;
// otherwise the transaction commits.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

// BookingService books conferences for multiple users in one atomic
// operation.
type BookingService interface {
	// BookConference provisions the requested users, opens an order, and
	// attaches one booking per resolvable line. Returns the shared order id.
	BookConference(ctx context.Context, identity *Identity, users []BookingUser, lines []BookingLine) (orderID string, err error)
}
