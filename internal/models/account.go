package models

// Account represents a named account owned by exactly one user.
// Only id and name go over the wire; ownership is implicit in the
// bearer token of the request.
type Account struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"-"`
}

// OwnerID returns the id of the owning user.
func (a Account) OwnerID() string { return a.UserID }
