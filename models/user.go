package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClerkID    string    `json:"clerkId" gorm:"uniqueIndex;not null"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	CanPublish bool      `json:"canPublish" gorm:"default:false"`
	Articles   []Article `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IdentityProfile is what the identity provider knows about a session's user.
type IdentityProfile struct {
	ExternalID string
	Emails     []string
	FirstName  string
	LastName   string
	FullName   string
	Username   string
}

// DisplayName falls back from the full name to the username and finally to "User".
func (p IdentityProfile) DisplayName() string {
	full := p.FullName
	if full == "" {
		full = joinName(p.FirstName, p.LastName)
	}
	if full != "" {
		return full
	}
	if p.Username != "" {
		return p.Username
	}
	return "User"
}

// Empty reports a profile with neither an email nor any name.
func (p IdentityProfile) Empty() bool {
	return p.PrimaryEmail() == "" &&
		strings.TrimSpace(p.FullName+p.FirstName+p.LastName+p.Username) == ""
}

func (p IdentityProfile) PrimaryEmail() string {
	for _, e := range p.Emails {
		if e != "" {
			return e
		}
	}
	return ""
}

func joinName(first, last string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
