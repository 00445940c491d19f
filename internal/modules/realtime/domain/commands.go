package domain

// ReloadCommand asks for a fresh snapshot, optionally switching the day the
// client follows.
type ReloadCommand struct {
	Day string `json:"day,omitempty"`
}
