package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

// User is a field rep account. Role gates the admin-only sync/import
// endpoints; Market is the rep's home sales market code, used by the map
// view as a fallback hint when device location is unavailable.
type User struct {
	UserID         string  `gorm:"primaryKey" json:"user_id"`
	Username       string  `json:"username"`
	Password       string  `json:"password" gorm:"-"`
	HashedPassword string  `json:"-"`
	Role           string  `gorm:"default:'rep'" json:"role"`
	Market         string  `gorm:"default:''" json:"market"`
	Session        Session `gorm:"foreignKey:UserID" json:"session"`
}

func (Session) TableName() string { return "app_auth.sessions" }
func (User) TableName() string    { return "app_auth.users" }
