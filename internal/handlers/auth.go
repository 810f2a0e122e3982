package handlers

import (
	"errors"
	"net/http"
	"time"

	"blog_api/internal/service"

	"github.com/gin-gonic/gin"
)

// SignUpRequest is the registration payload.
type SignUpRequest struct {
	FirstName string `json:"firstName" binding:"required" example:"Ada"`
	LastName  string `json:"lastName" binding:"required" example:"Lovelace"`
	Email     string `json:"email" binding:"required,email" example:"ada@example.com"`
	Username  string `json:"username" binding:"required" example:"ada"`
	Password  string `json:"password" binding:"required" example:"s3cr3t"`
}

// SignInRequest is the credentials payload for token issue.
type SignInRequest struct {
	Username string `json:"username" binding:"required" example:"ada"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignUpRequest  true  "User payload"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input SignUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), service.SignUpInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Username:  input.Username,
		Password:  input.Password,
	})
	if err != nil {
		h.respondError(c, "auth_sign_up_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Issue a bearer token
// @Description  Returns the current token while it has more than a minute left, otherwise a new one.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignInRequest  true  "Credentials"
// @Success      200   {object}  TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input SignInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, expiresAt, err := h.services.SignIn(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidPassword) {
			if h.log != nil {
				h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.respondError(c, "auth_sign_in_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// @Summary      Revoke the caller's token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/auth/sign-out [post]
// @Security     BearerAuth
func (h *Handler) signOut(c *gin.Context) {
	id, ok := mustIdentity(c)
	if !ok {
		return
	}
	if err := h.services.SignOut(c.Request.Context(), id.GetID()); err != nil {
		h.respondError(c, "auth_sign_out_failed", err, "user_id", id.GetID())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "revoked"})
}
