package models

// Coordinate is a latitude/longitude pair. A transaction either has a
// full pair or none; partial coordinates must never be observable.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Transaction represents a single movement of money on an account.
// Amount is in cents, sign encodes income vs. expense. The wire field
// "account" carries the owning account id.
type Transaction struct {
	ID          string      `json:"id"`
	Amount      int64       `json:"amount"`
	Description string      `json:"description"`
	Date        Timestamp   `json:"date"`
	Location    *Coordinate `json:"location"`
	AccountID   string      `json:"account"`
}
