package model

import "time"

// Identity is an email+password account of the authentication component.
type Identity struct {
	UUIDBase
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:100;not null" json:"-"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}

func (Identity) TableName() string {
	return "identities"
}
