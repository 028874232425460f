package config

import "time"

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./greenloop.db"

	// DefaultTokenTTL is the session token validity window
	DefaultTokenTTL = 7 * 24 * time.Hour

	// DefaultBcryptCost is the password hashing work factor
	DefaultBcryptCost = 10
)
