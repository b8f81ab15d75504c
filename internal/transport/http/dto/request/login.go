package request

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}
