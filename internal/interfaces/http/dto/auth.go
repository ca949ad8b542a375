package dto

// LoginRequest is the sign-in form
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	// Next is where the login page sends the browser after signing in
	Next string `json:"-" form:"next"`
}

// IdentityResponse describes the signed-in identity
type IdentityResponse struct {
	Email        string `json:"email"`
	BusinessName string `json:"businessName,omitempty"`
	DisplayName  string `json:"displayName"`
}
