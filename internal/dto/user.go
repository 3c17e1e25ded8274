package dto

// LoginRequest is the JSON body for POST /api/login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the JSON body for POST /api/register/. The password is
// submitted twice; the service rejects a mismatch before creating anything.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// UserResponse is returned when user info is needed (e.g. after register).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
