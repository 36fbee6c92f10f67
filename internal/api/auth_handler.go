package api

import (
	"net/http"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/logging"
	"fitnesshub/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request Structs ---

// Role is checked by the service so an unknown role yields its own message.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --- Handler Methods ---

// Signup godoc
// @Summary Register a new account (Admin, Trainer or User)
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body SignupRequest true "Registration details"
// @Success 201 {object} gin.H "User registered successfully"
// @Failure 400 {object} gin.H "Invalid input, invalid role or email already registered"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	logging.FromContext(c).WithField("user_id", user.ID.Hex()).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": MapUserToResponse(user)})
}

// Login godoc
// @Summary Log in on a role surface
// @Description Authenticates a user and returns a JWT valid for one hour. The stored role must equal the path role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param role path string true "Admin, Trainer or User"
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} gin.H "Login successful"
// @Failure 401 {object} gin.H "Wrong password"
// @Failure 403 {object} gin.H "Role mismatch"
// @Failure 404 {object} gin.H "User not found"
// @Router /auth/login/{role} [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.Login(c.Request.Context(), domain.Role(c.Param("role")), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}
