package http

import (
	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/database"
	"github.com/greenloop/greenloop/internal/inventory"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database       *database.Database
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware

	// Inventory (optional; routes omitted when nil)
	InventoryController *inventory.Controller

	// CORSOrigin is the browser client's origin. Empty disables CORS
	// handling entirely (same-origin deployments).
	CORSOrigin string

	// EnableHSTS turns on Strict-Transport-Security for TLS deployments.
	EnableHSTS bool

	// Application info
	Version string
}
