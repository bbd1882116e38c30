package domain

// SessionState is the per-session bookkeeping of the confirm-before-commit workflow.
type SessionState struct {
	ConfirmFlag        bool   `json:"confirm_flag"`
	PendingProfilePath string `json:"pending_profile_path,omitempty"`
	PendingPostStatus  *bool  `json:"pending_post_status,omitempty"`
	LastRouteKey       string `json:"last_route_key,omitempty"`
}

// Previewing reports whether a confirmed commit is expected for routeKey.
func (s SessionState) Previewing(routeKey string) bool {
	return s.ConfirmFlag && s.LastRouteKey == routeKey
}
