package models

// User is the profile document stored for each registered account.
// AccountID references the backend account; Avatar is an initials-avatar
// resolver URL generated at registration time.
type User struct {
	ID string `json:"-"`

	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
}
