package model

// CancelReason is static lookup data; the free-text extended reason on a
// cancellation supplements it, never replaces it.
type CancelReason struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}
