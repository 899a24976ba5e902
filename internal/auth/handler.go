package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ===============================
// Registration
// ===============================

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	FullName string `json:"full_name" binding:"required,max=255" example:"Jane Smith"`
	Password string `json:"password" binding:"required,max=72" example:"attendee123"`
	Role     string `json:"role" binding:"omitempty,user_role" example:"attendee"`
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account details"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.BadRequest(err.Error()))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), RegisterInput(req), ClientIP(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ===============================
// Login
// ===============================

// LoginRequest follows the OAuth2 password form: the email goes in username.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Login godoc
// @Summary Exchange credentials for an access token
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		apperr.Respond(c, apperr.BadRequest("username and password are required"))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Username, req.Password, ClientIP(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, err := CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Response())
}
