package domain

import "time"

// Provider enumerates sign-in channels an email can be whitelisted for.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderYandex Provider = "yandex"
	ProviderEmail  Provider = "email"
)

// ParseProvider validates a raw provider value.
func ParseProvider(raw string) (Provider, bool) {
	switch Provider(raw) {
	case ProviderGoogle, ProviderYandex, ProviderEmail:
		return Provider(raw), true
	default:
		return "", false
	}
}

// WhitelistEntry models a pre-approved sign-in email.
type WhitelistEntry struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}
