package constant

import "time"

// HTTP Render Service
const (
	ServerDefaultPort = 8080

	ServerReadTimeout     = 30 * time.Second
	ServerWriteTimeout    = 2 * time.Minute // Long renders
	ServerIdleTimeout     = 60 * time.Second
	ServerShutdownTimeout = 10 * time.Second

	// ServerMaxBodyBytes bounds JSON request bodies
	ServerMaxBodyBytes = 1 << 20

	// ServerCacheEntries bounds the rendered WAV cache
	ServerCacheEntries = 256
)
