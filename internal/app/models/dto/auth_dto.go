package dto

// LoginRequest represents login credentials.
type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn" example:"3600"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}
