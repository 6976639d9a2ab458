package dto

// AdminLoginRequest payload for the shared-password login.
type AdminLoginRequest struct {
	Password string `json:"password"`
}
