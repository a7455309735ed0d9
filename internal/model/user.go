package model

// Profile is what GET /api/profile returns under "data".
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type ProfileResponse struct {
	Data Profile `json:"data"`
}

// ErrorBody is the server's error payload.
type ErrorBody struct {
	Message string `json:"message"`
}
