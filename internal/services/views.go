package services

import (
	"time"

	"github.com/diewo77/go-profiles/internal/models"
)

// UserView is the public part of an account.
type UserView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileView is the read representation of a profile with its account, type and roles.
type ProfileView struct {
	ID             uint              `json:"id"`
	User           UserView          `json:"user"`
	UserType       *models.UserType  `json:"user_type"`
	UserRoles      []models.UserRole `json:"user_roles"`
	PhoneNumber    *string           `json:"phone_number"`
	ProfilePicture *string           `json:"profile_picture"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewProfileView maps a preloaded profile. mediaURL turns a stored picture key into a URL;
// when nil the key is returned as is.
func NewProfileView(p *models.Profile, mediaURL func(string) string) ProfileView {
	view := ProfileView{
		ID: p.ID,
		User: UserView{
			ID:        p.Account.ID,
			Username:  p.Account.Username,
			Email:     p.Account.Email,
			FirstName: p.Account.FirstName,
			LastName:  p.Account.LastName,
		},
		UserType:    p.UserType,
		UserRoles:   p.UserRoles,
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if view.UserRoles == nil {
		view.UserRoles = []models.UserRole{}
	}
	if p.ProfilePicture != nil && *p.ProfilePicture != "" {
		u := *p.ProfilePicture
		if mediaURL != nil {
			u = mediaURL(u)
		}
		view.ProfilePicture = &u
	}
	return view
}
