package domain

// Project describes one site whose logs are analyzed. Sourced from the
// external project list; either log path may be empty.
type Project struct {
	Name      string `json:"name"`
	AccessLog string `json:"access_log,omitempty"`
	ErrorLog  string `json:"error_log,omitempty"`
}
