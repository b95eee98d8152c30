package server

import "time"

type Config struct {
	// Addr is the HTTP listen address.
	Addr        string
	ReadTimeout time.Duration
	// AllowedOrigin is echoed in Access-Control-Allow-Origin. Empty disables CORS headers.
	AllowedOrigin string
}
