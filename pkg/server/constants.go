package server

import "time"

// Defaults for the TCP accept loop and per-connection socket tuning.
const (
	DefaultPort                = 11211
	DefaultMaxConnections      = 10000
	ReadBufferSize             = 4096
	TCPKeepAliveInterval       = 30 * time.Second
	AcceptBackoffOnAcceptError = 5 * time.Millisecond

	// setHeaderOverhead is the room a command line gets beyond the key
	// itself. A "set" line needs 34 bytes of it (verb, the flags/exptime/
	// byte-count tokens at their widest unpadded widths, four spaces and
	// CR+LF); 262 keeps the bound at the transport's 512-byte default for
	// the default key_maxlen of 250. Added to the cache's current
	// key_maxlen to size each connection's command-line bound, so a
	// hot-reloaded key_maxlen increase doesn't truncate valid keys.
	setHeaderOverhead = 262
)
