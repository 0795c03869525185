package dto

// RegisterRequest carries the registration payload. The password policy
// (length >= 12 with mixed case, digit and special character) is enforced
// here at the transport boundary via the strongpassword validator; the
// workflow engine itself only requires a non-empty password.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,min=3,max=50"`
	LastName  string `json:"lastName" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Tel       string `json:"tel" binding:"omitempty,min=6,max=20"`
	Password  string `json:"password" binding:"required,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the sanitized user plus the signed bearer token.
// SessionToken is only present when the client asked for a stateful session.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	JWTToken     string       `json:"jwtToken"`
	SessionToken string       `json:"sessionToken,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required,len=64,hexadecimal"`
	Password string `json:"password" binding:"required,strongpassword"`
}
