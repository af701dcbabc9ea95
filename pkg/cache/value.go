package cache

// Value is an owned payload plus the metadata the engine needs to
// decide liveness and answer a get.
type Value struct {
	Payload []byte

	// Flags is opaque to the server and echoed back verbatim.
	Flags uint16

	// Exptime is an absolute deadline in seconds since epoch.
	// Exptime > 0 means "expires at that instant"; <= 0 means no
	// per-entry deadline.
	Exptime float64

	// Atime is the last-access time, set at insertion and on every
	// successful read.
	Atime float64
}

// NewValue constructs a Value with the given payload, flags and
// per-entry expiry deadline. Atime is set on insertion by Cache.Set.
func NewValue(payload []byte, flags uint16, exptime float64) Value {
	return Value{Payload: payload, Flags: flags, Exptime: exptime}
}

// Len returns the payload length in bytes.
func (v Value) Len() int {
	return len(v.Payload)
}

func (v *Value) touch(now float64) {
	v.Atime = now
}
