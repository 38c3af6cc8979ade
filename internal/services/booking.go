package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"confbooking/internal/domain"
)

type bookingService struct {
	txManager      domain.TxManager
	hasher         domain.PasswordHasher
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewBookingService creates a BookingService. emailService may be nil, in
// which case no confirmation email is sent.
func NewBookingService(txManager domain.TxManager, hasher domain.PasswordHasher, emailService domain.EmailService, timeout time.Duration) domain.BookingService {
	return &bookingService{
		txManager:      txManager,
		hasher:         hasher,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

// BookConference runs the whole booking as one atomic transaction: provision
// the requested users, open an order, and attach one booking per line. A new
// email without a password aborts everything; a line whose email resolves to
// no account is skipped silently.
func (s *bookingService) BookConference(ctx context.Context, identity *domain.Identity, users []domain.BookingUser, lines []domain.BookingLine) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity == nil {
		return "", fmt.Errorf("acting identity is required")
	}

	orderID := uuid.NewString()
	bookingCount := 0
	err := s.txManager.WithinTx(ctx, func(r domain.TxRepos) error {
		companyID, err := r.Users.CompanyIDByUserID(ctx, identity.UserID)
		if err != nil {
			return fmt.Errorf("resolve company: %w", err)
		}

		for _, u := range users {
			exists, err := r.Users.ExistsByEmail(ctx, u.Email)
			if err != nil {
				return fmt.Errorf("check user %s: %w", u.Email, err)
			}
			if exists {
				// Existing account is reused silently.
				continue
			}
			if u.Password == "" {
				return &domain.MissingPasswordError{Email: u.Email}
			}
			if err := s.createUser(ctx, r.Users, u, companyID); err != nil {
				return err
			}
		}

		if err := r.Bookings.CreateOrder(ctx, orderID); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range lines {
			user, err := r.Users.GetByEmail(ctx, line.Email)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Unresolvable email: skip this line, keep the rest.
					continue
				}
				return fmt.Errorf("resolve booking user %s: %w", line.Email, err)
			}
			bookingID, err := r.Bookings.AddBooking(ctx, line.ConferenceID, user.ID, orderID)
			if err != nil {
				return fmt.Errorf("add booking: %w", err)
			}
			for _, sel := range line.Optionals {
				if err := r.Bookings.AddOptional(ctx, bookingID, sel); err != nil {
					return fmt.Errorf("add optional: %w", err)
				}
			}
			for _, workshopID := range line.Workshops {
				if err := r.Bookings.AddWorkshop(ctx, bookingID, workshopID); err != nil {
					return fmt.Errorf("add workshop: %w", err)
				}
			}
			bookingCount++
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if s.emailService != nil {
		data := &domain.BookingConfirmationEmailData{
			Email:        identity.Email,
			OrderID:      orderID,
			BookingCount: bookingCount,
		}
		if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
			log.Printf("[BOOKING] confirmation email for order %s failed: %v", orderID, err)
		}
	}
	return orderID, nil
}

func (s *bookingService) createUser(ctx context.Context, users domain.UserRepository, u domain.BookingUser, companyID int64) error {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, u.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := &domain.User{
		Email:         u.Email,
		Name:          u.Name,
		Surname:       u.Surname,
		Phone:         u.Phone,
		PasswordHash:  hash,
		Salt:          salt,
		PrivacyPolicy: u.PrivacyPolicy,
		CompanyID:     companyID,
		Profile:       domain.ProfileClient,
		Founder:       false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return nil
}
