package controllers

import (
	"net/http"
	"time"

	"hotel-pms-backend/middleware"
	"hotel-pms-backend/services"
	"hotel-pms-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Users     *services.UserService
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthController(users *services.UserService, secret string, ttl time.Duration) *AuthController {
	return &AuthController{Users: users, JWTSecret: secret, TokenTTL: ttl}
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := ac.Users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		// Always the same message so account state is not leaked.
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.NewAccessToken(ac.JWTSecret, user.ID, string(user.Role), ac.TokenTTL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user":       user,
		"token":      token.Token,
		"expires_at": token.Exp,
	})
}

// Verify confirms the bearer token and returns its user. Runs behind
// RequireAuth, so reaching the handler means the token checked out.
func (ac *AuthController) Verify(c *gin.Context) {
	user, err := ac.Users.GetByID(middleware.ActingUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"valid": true, "user": user})
}

// Me returns the authenticated user.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Users.GetByID(middleware.ActingUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
