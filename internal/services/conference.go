package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"confbooking/internal/domain"
)

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	priceRepo      domain.PriceRepository
	contextTimeout time.Duration
}

// NewConferenceService creates a ConferenceService with the given repositories.
func NewConferenceService(conferenceRepo domain.ConferenceRepository, priceRepo domain.PriceRepository, timeout time.Duration) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		priceRepo:      priceRepo,
		contextTimeout: timeout,
	}
}

// GetActive returns the active conference with children populated and the
// discount fields resolved for the given identity. The guest price is set
// regardless of identity; members see the member or expert price depending
// on their profile.
func (s *conferenceService) GetActive(ctx context.Context, identity *domain.Identity) (*domain.ConferenceWithPricing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	active, err := s.conferenceRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get active conference: %w", err)
	}
	conference, err := s.conferenceRepo.GetByID(ctx, active.ID)
	if err != nil {
		return nil, fmt.Errorf("get conference: %w", err)
	}

	rules, err := s.priceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list price rules: %w", err)
	}
	prices := make(map[string]float64, len(rules))
	for _, rule := range rules {
		prices[rule.Code] = rule.Price
	}
	guestPrice, ok := prices[domain.PriceConferenceGuests]
	if !ok {
		return nil, fmt.Errorf("price rule %s not configured", domain.PriceConferenceGuests)
	}

	result := &domain.ConferenceWithPricing{
		Conference:          conference,
		DiscountPrice:       conference.Price,
		DiscountPriceGuests: guestPrice,
	}
	if identity != nil && identity.Membership {
		switch identity.Profile {
		case domain.ProfileClient:
			if p, ok := prices[domain.PriceConferenceMember]; ok {
				result.DiscountPrice = p
			} else {
				return nil, fmt.Errorf("price rule %s not configured", domain.PriceConferenceMember)
			}
		case domain.ProfileAgent, domain.ProfileExpert:
			if p, ok := prices[domain.PriceConferenceExpert]; ok {
				result.DiscountPrice = p
			} else {
				return nil, fmt.Errorf("price rule %s not configured", domain.PriceConferenceExpert)
			}
		}
	}
	return result, nil
}

func (s *conferenceService) GetByID(ctx context.Context, id int64) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return conference, nil
}

func (s *conferenceService) List(ctx context.Context) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conferences, err := s.conferenceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return conferences, nil
}

func (s *conferenceService) Create(ctx context.Context, c *domain.Conference) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.conferenceRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}
	return s.conferenceRepo.GetByID(ctx, c.ID)
}

func (s *conferenceService) Update(ctx context.Context, c *domain.Conference, id int64) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.conferenceRepo.Update(ctx, c, id); err != nil {
		return nil, fmt.Errorf("update conference: %w", err)
	}
	return s.conferenceRepo.GetByID(ctx, id)
}

func (s *conferenceService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Deleting an absent id still reports success.
	if err := s.conferenceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete conference: %w", err)
	}
	return nil
}

func (s *conferenceService) FindByOrderID(ctx context.Context, orderID string) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.conferenceRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find conference by order: %w", err)
	}
	return conference, nil
}
