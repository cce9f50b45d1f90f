package models

import (
	"time"
)

// RefreshToken represents a persisted JWT refresh token. Tokens are
// rotated on every refresh and revoked on logout; the jobs package
// purges expired and revoked rows.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
