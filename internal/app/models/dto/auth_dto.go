package dto

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"student@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	FirstName string `json:"firstName" binding:"required,min=2,max=100" example:"Amina"`
	LastName  string `json:"lastName" binding:"required,min=2,max=100" example:"Diallo"`
	// Role defaults to STUDENT; ADMIN registrations are created unapproved
	Role string `json:"role,omitempty" binding:"omitempty,oneof=STUDENT ADMIN" example:"STUDENT"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken      string        `json:"accessToken"`
	RefreshToken     string        `json:"refreshToken"`
	ExpiresIn        int           `json:"expiresIn"`
	RefreshExpiresIn int           `json:"refreshExpiresIn"`
	User             *UserResponse `json:"user,omitempty"`
}
