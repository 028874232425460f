package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller handles the authentication HTTP endpoints. All responses use
// the envelope {"success": bool, ...}; register and login report failures
// with HTTP 200 and success=false, while verify failures are 401.
type Controller struct {
	service   *Service
	transport *CookieTransport
}

// NewController creates an authentication controller.
func NewController(service *Service, transport *CookieTransport) *Controller {
	return &Controller{
		service:   service,
		transport: transport,
	}
}

// RegisterRoutes registers the auth endpoints on the given group.
func (ac *Controller) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/register", ac.Register)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/verify", ac.Verify)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and opens a session for it.
func (ac *Controller) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ac.failure(c, "Invalid request body")
		return
	}

	session, err := ac.service.Register(req.Name, req.Email, req.Password, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			ac.failure(c, "All fields are required")
		case errors.Is(err, ErrEmailInvalid):
			ac.failure(c, "Invalid email format")
		case errors.Is(err, ErrPasswordTooLong):
			ac.failure(c, "Password exceeds maximum length of 72 characters")
		case errors.Is(err, ErrUserExists):
			ac.failure(c, "User already exists")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error",
			})
		}
		return
	}

	ac.transport.Attach(c.Writer, session.Token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    session.User,
		"token":   session.Token,
	})
}

// Login authenticates credentials and opens a session.
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ac.failure(c, "Invalid request body")
		return
	}

	session, err := ac.service.Login(req.Email, req.Password, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			ac.failure(c, "Email and password are required")
		case errors.Is(err, ErrInvalidCredentials):
			ac.failure(c, "Invalid email or password")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error",
			})
		}
		return
	}

	ac.transport.Attach(c.Writer, session.Token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    session.User,
		"token":   session.Token,
	})
}

// Logout clears the session cookie. Always succeeds: logging out without a
// session is not an error.
func (ac *Controller) Logout(c *gin.Context) {
	if token, ok := ac.transport.Extract(c.Request); ok {
		if userID, err := ac.service.issuer.Validate(token); err == nil {
			ac.service.Logout(userID, requestMeta(c))
		}
	}

	ac.transport.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// Verify resolves the session cookie to the current account state.
func (ac *Controller) Verify(c *gin.Context) {
	token, ok := ac.transport.Extract(c.Request)
	if !ok {
		ac.unauthorized(c, "Not authenticated")
		return
	}

	user, err := ac.service.Verify(token, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			ac.unauthorized(c, "Session expired")
		case errors.Is(err, ErrInvalidToken):
			ac.unauthorized(c, "Invalid session")
		case errors.Is(err, ErrUserGone):
			ac.unauthorized(c, "User no longer exists")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.Public(),
	})
}

// failure reports a register/login failure. Status is 200: clients key off
// the success flag, not the status code. No session cookie is written.
func (ac *Controller) failure(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
	})
}

func (ac *Controller) unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

func requestMeta(c *gin.Context) RequestMeta {
	return RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
