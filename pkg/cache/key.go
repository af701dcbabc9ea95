package cache

// Key is an owned, immutable-after-creation byte sequence used to look
// up entries. Using a Go string as the backing representation gives
// content equality and hashing for free when Key is used as a map key.
type Key string

// NewKey copies b into an owned Key.
func NewKey(b []byte) Key {
	return Key(b)
}

// Len returns the key's length in bytes.
func (k Key) Len() int {
	return len(k)
}

// Bytes returns the key's raw bytes.
func (k Key) Bytes() []byte {
	return []byte(k)
}

// String returns the key as a string.
func (k Key) String() string {
	return string(k)
}
