package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// Statistics returns record counts across the whole store. Admin only.
func (s *Service) Statistics(ctx context.Context, userID string) (models.Statistics, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return models.Statistics{}, err
	}

	userCount, err := s.docs.Users().Count(ctx)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("count users: %w", err)
	}
	albumCount, err := s.docs.Albums().Count(ctx)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("count albums: %w", err)
	}
	imageCount, err := s.docs.Images().Count(ctx)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("count images: %w", err)
	}

	return models.Statistics{
		UserCount:  userCount,
		AlbumCount: albumCount,
		ImageCount: imageCount,
	}, nil
}

// Users returns every registered account. Admin only.
func (s *Service) Users(ctx context.Context, userID string) ([]models.User, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	users, err := s.docs.Users().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	user, err := s.docs.Users().Get(ctx, userID)
	if errors.Is(err, document.ErrNotFound) {
		return ErrPermissionDenied
	}
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !user.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}
