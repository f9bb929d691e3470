package domain

// ReloadEvent describes a filesystem change pushed to livereload clients.
type ReloadEvent struct {
	Path string `json:"path"`
	Op   string `json:"op"`
}
