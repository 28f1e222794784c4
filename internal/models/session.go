package models

// Session is the signed-in identity plus the bearer token, persisted as {user, token}.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
