package models

// Role is the authorization tier carried in the token's role claim.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a user in the database.
type User struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         Role   `db:"role"`
}

// View projects the user without its password hash.
func (u *User) View() UserView {
	return UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// UserView is the sanitized projection returned to API callers.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// RegisterRequest defines the structure for a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"omitempty,role"`
}

// LoginRequest defines the structure for a user login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the structure for a successful login response.
type LoginResponse struct {
	Token string `json:"token"`
}

// UpdateProfileRequest is the self-service profile change.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email,max=254"`
}

// ProfileUpdate is returned after a profile change. Token is set only when
// the email changed, since the caller's old token names the previous email.
type ProfileUpdate struct {
	User  UserView `json:"user"`
	Token string   `json:"token,omitempty"`
}

// ChangePasswordRequest is the self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// AdminUpdateRequest replaces an account's name, email and role.
type AdminUpdateRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email,max=254"`
	Role  Role   `json:"role" binding:"required,role"`
}

// ResetPasswordRequest sets a new password on behalf of a user.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}
