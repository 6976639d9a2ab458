package dto

// StaffMutationRequest payload for adding or deleting a staff name.
type StaffMutationRequest struct {
	Name string `json:"name"`
}

// WhitelistMutationRequest payload for adding or deleting a whitelist email.
// Provider defaults to "email" when omitted on add.
type WhitelistMutationRequest struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
}
