package models

// Token is a persisted opaque bearer credential. A token stays valid
// until its row is deleted; there is no expiry column.
type Token struct {
	ID     string `json:"id"`
	Value  string `json:"token"`
	UserID string `json:"-"`
}
