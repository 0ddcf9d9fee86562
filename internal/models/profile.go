package models

import "time"

// Profile extends an Account with contact details, a type and a set of roles.
// Each account has at most one profile.
type Profile struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AccountID      uint       `gorm:"uniqueIndex;not null"`
	Account        Account    `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	PhoneNumber    *string    `gorm:"size:20"`
	ProfilePicture *string    `gorm:"size:255"` // blob key
	UserTypeID     *uint      `gorm:"index"`
	UserType       *UserType  `gorm:"foreignKey:UserTypeID;constraint:OnDelete:SET NULL"`
	UserRoles      []UserRole `gorm:"many2many:profile_user_roles;"`
}

// ProfileUserRole is the profile_user_roles join row.
type ProfileUserRole struct {
	ProfileID  uint `gorm:"primaryKey"`
	UserRoleID uint `gorm:"primaryKey"`
}

// RoleIDs returns the ids of the loaded roles in order.
func (p *Profile) RoleIDs() []uint {
	ids := make([]uint, len(p.UserRoles))
	for i, r := range p.UserRoles {
		ids[i] = r.ID
	}
	return ids
}

// All lists every model in migration order.
func All() []any {
	return []any{&Account{}, &AuthToken{}, &UserType{}, &UserRole{}, &Profile{}, &ProfileUserRole{}}
}
