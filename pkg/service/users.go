package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Roky360/fotogo-bakcend/internal/logger"
	"github.com/Roky360/fotogo-bakcend/pkg/identity"
	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// CheckUser returns the privilege level of the account with the given id,
// or PrivilegeUnregistered when the token verified but no account exists.
func (s *Service) CheckUser(ctx context.Context, userID string) (int, error) {
	user, err := s.docs.Users().Get(ctx, userID)
	if errors.Is(err, document.ErrNotFound) {
		return models.PrivilegeUnregistered, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	return user.PrivilegeLevel, nil
}

// CreateAccount stores an account for the verified identity. Creating an
// account that already exists refreshes its profile fields and keeps its
// privilege level.
func (s *Service) CreateAccount(ctx context.Context, id identity.Identity) error {
	user := &models.User{
		ID:             id.UserID,
		Email:          id.Email,
		DisplayName:    id.DisplayName,
		PhotoURL:       id.PhotoURL,
		PrivilegeLevel: models.PrivilegeUser,
	}

	existing, err := s.docs.Users().Get(ctx, id.UserID)
	if err == nil {
		user.PrivilegeLevel = existing.PrivilegeLevel
	} else if !errors.Is(err, document.ErrNotFound) {
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.docs.Users().Put(ctx, user); err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// DeleteAccount removes the user's images, albums, account record, and
// blob prefix. The blob sweep runs last so a failure earlier leaves the
// account intact for a retry.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if ok, err := s.docs.Users().Exists(ctx, userID); err != nil {
		return fmt.Errorf("check user: %w", err)
	} else if !ok {
		return ErrUserNotFound
	}

	images, err := s.docs.Images().ByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	for _, image := range images {
		if err := s.docs.Images().Delete(ctx, userID, image.FileName); err != nil && !errors.Is(err, document.ErrNotFound) {
			return fmt.Errorf("delete image record: %w", err)
		}
	}

	albums, err := s.docs.Albums().ByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list albums: %w", err)
	}
	for _, album := range albums {
		if err := s.docs.Albums().Delete(ctx, album.ID); err != nil && !errors.Is(err, document.ErrNotFound) {
			return fmt.Errorf("delete album record: %w", err)
		}
	}

	if err := s.docs.Users().Delete(ctx, userID); err != nil && !errors.Is(err, document.ErrNotFound) {
		return fmt.Errorf("delete user record: %w", err)
	}

	if err := s.blobs.DeletePrefix(ctx, userID+"/"); err != nil {
		logger.Warn("failed to sweep blobs for deleted account",
			logger.KeyUserID, userID,
			logger.KeyError, err)
	}
	return nil
}
