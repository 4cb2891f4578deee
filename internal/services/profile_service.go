package services

import (
	"context"
	"strings"

	"tunebox/internal/apperr"
	"tunebox/internal/models"
	"tunebox/internal/repositories"
)

// ProfileUpdate holds the profile fields a user may change. Nil fields are left as is.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Nickname *string
	Avatar   *string
}

// ProfileService reads and updates the requesting user's own profile.
type ProfileService struct {
	userRepo repositories.UserRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// Get reloads the user's profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Update applies in to user. Username and email may be changed but not cleared; taken
// usernames or emails are conflicts.
func (s *ProfileService) Update(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	blank := map[string]string{}
	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		blank["username"] = "this field may not be blank"
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) == "" {
		blank["email"] = "this field may not be blank"
	}
	if len(blank) > 0 {
		return nil, apperr.ValidationFields(blank)
	}

	var username, email string
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if username == user.Username {
			username = ""
		}
	}
	if in.Email != nil {
		email = strings.TrimSpace(*in.Email)
		if strings.EqualFold(email, user.Email) {
			email = ""
		}
	}
	if err := ensureUnique(ctx, s.userRepo, user.ID, username, email); err != nil {
		return nil, err
	}

	updated := *user
	if username != "" {
		updated.Username = username
	}
	if email != "" {
		updated.Email = email
	}
	if in.Nickname != nil {
		updated.Nickname = *in.Nickname
	}
	if in.Avatar != nil {
		updated.Avatar = *in.Avatar
	}
	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
