package domain

// Identity is the authenticated user handle supplied by the session layer.
// A nil *Identity means anonymous/guest; transitions between nil and non-nil
// drive full reconciliation of the local projection.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
