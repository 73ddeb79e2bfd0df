package dto

type LoginRequest struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}
