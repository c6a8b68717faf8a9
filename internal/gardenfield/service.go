package gardenfield

import (
	"context"
	"strings"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description *string
	SizeM2      float64
	PricePerM2  float64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	SizeM2      *float64
	PricePerM2  *float64
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*GardenField, error)
	GetByID(ctx context.Context, id string) (*GardenField, error)
	List(ctx context.Context, filter Filter) ([]*GardenField, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*GardenField, error)
	Delete(ctx context.Context, id string, actorID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*GardenField, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.SizeM2 <= 0 {
		return nil, ErrInvalidSize
	}
	if req.PricePerM2 <= 0 {
		return nil, ErrInvalidPrice
	}

	f := &GardenField{
		OwnerID:     req.OwnerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SizeM2:      req.SizeM2,
		PricePerM2:  req.PricePerM2,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*GardenField, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*GardenField, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*GardenField, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.OwnerID != actorID {
		return nil, ErrPermissionDenied
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		f.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		f.Description = req.Description
	}
	if req.SizeM2 != nil {
		if *req.SizeM2 <= 0 {
			return nil, ErrInvalidSize
		}
		f.SizeM2 = *req.SizeM2
	}
	if req.PricePerM2 != nil {
		if *req.PricePerM2 <= 0 {
			return nil, ErrInvalidPrice
		}
		f.PricePerM2 = *req.PricePerM2
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f.OwnerID != actorID {
		return ErrPermissionDenied
	}
	return s.repo.SoftDelete(ctx, id)
}
