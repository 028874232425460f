package entities

import "time"

type AuthAction string

const (
	AuthActionRegister AuthAction = "register"
	AuthActionLogin    AuthAction = "login"
	AuthActionLogout   AuthAction = "logout"
	AuthActionVerify   AuthAction = "verify"
)

// AuthEvent is an audit record of an authentication operation. It never
// contains passwords or hashes.
type AuthEvent struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index" json:"user_id"`
	Action    AuthAction `gorm:"index;size:20" json:"action"`
	Email     string     `gorm:"size:255" json:"email,omitempty"`
	IPAddress string     `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string     `gorm:"size:500" json:"user_agent,omitempty"`
	Success   bool       `json:"success"`
	ErrorMsg  string     `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (AuthEvent) TableName() string {
	return "auth_events"
}
