package auth

// LoginInput represents the request body for user authentication.
// Identity is an email when it contains '@', otherwise a username.
type LoginInput struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token for later requests.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
