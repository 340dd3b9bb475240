package controller

import (
	"ctchen222/game-store/internal/api/middleware"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/response"
	"ctchen222/game-store/internal/api/service"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController handles account, login and profile HTTP requests.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register handles the user registration endpoint. Only an authenticated
// Admin may create another Admin.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	role := models.RoleUser
	if req.Role == models.RoleAdmin {
		caller, ok := middleware.IdentityFrom(c)
		if !ok || !auth.IsAuthorized(caller.Role, models.RoleAdmin) {
			response.Fail(c, apperror.New(apperror.Forbidden, "only an admin can create admin accounts"))
			return
		}
		role = models.RoleAdmin
	}

	user, err := uc.userService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.CreatedResponse(c, user)
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := uc.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessResponse(c, models.LoginResponse{Token: token})
}

// Me returns the caller's profile.
func (uc *UserController) Me(c *gin.Context) {
	user, err := uc.userService.Profile(c.Request.Context(), mustIdentity(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessResponse(c, user)
}

// UpdateMe changes the caller's name and email.
func (uc *UserController) UpdateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	out, err := uc.userService.UpdateProfile(c.Request.Context(), mustIdentity(c), req.Name, req.Email)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessResponse(c, out)
}

// ChangePassword replaces the caller's password.
func (uc *UserController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := uc.userService.ChangePassword(c.Request.Context(), mustIdentity(c), req.CurrentPassword, req.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}

// List returns every account.
func (uc *UserController) List(c *gin.Context) {
	users, err := uc.userService.ListAll(c.Request.Context(), mustIdentity(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessResponseList(c, users)
}

// Update replaces another account's name, email and role.
func (uc *UserController) Update(c *gin.Context) {
	var req models.AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := uc.userService.AdminUpdate(c.Request.Context(), mustIdentity(c), c.Param("id"), service.AdminUpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessResponse(c, user)
}

// Delete removes an account and its library.
func (uc *UserController) Delete(c *gin.Context) {
	if err := uc.userService.AdminDelete(c.Request.Context(), mustIdentity(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}

// ResetPassword sets a new password for another account.
func (uc *UserController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := uc.userService.AdminResetPassword(c.Request.Context(), mustIdentity(c), c.Param("id"), req.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}

// mustIdentity reads the identity set by the authentication middleware.
// Routes using it are always mounted behind that middleware, so a missing
// identity yields the zero value, which every service rejects.
func mustIdentity(c *gin.Context) auth.Identity {
	id, _ := middleware.IdentityFrom(c)
	return id
}
