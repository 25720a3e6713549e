package dto

// LoginRequest carries credentials for either role.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns a signed bearer token and the authenticated profile.
type LoginResponse struct {
	Token   string      `json:"token"`
	Role    string      `json:"role"`
	Profile interface{} `json:"profile"`
}
