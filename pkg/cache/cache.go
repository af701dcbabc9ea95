// Package cache implements the in-memory key/value engine: a bounded
// map guarded by a single mutex, with per-entry and idle expiry.
// Capacity is enforced only on insertion of a brand new key; there is
// no eviction policy, so a full cache simply rejects new keys.
package cache

import (
	"sync"

	"github.com/memkv/memkv/internal/clock"
)

// DefaultKeyMaxlen is the maximum key length in bytes, matching the
// reference implementation's constant.
const DefaultKeyMaxlen = 250

// DefaultValueMaxlen is the maximum value length in bytes, matching the
// reference implementation's constant.
const DefaultValueMaxlen = 1048576

// Cache is a bounded key/value store. The zero value is not usable;
// construct with New or NewWithClock. Every exported method except the
// With* builder setters, which take no lock, is safe for concurrent use
// from multiple goroutines via a single exclusive lock, matching the
// engine's no-sharding design.
type Cache struct {
	mu sync.Mutex

	clock clock.Clock

	capacity uint64
	entries  map[Key]Value

	// itemLifetime is the idle timeout in seconds. Negative disables
	// idle expiry entirely; zero or positive enables it (zero means an
	// entry is already dead once now reaches its atime).
	itemLifetime float64

	keyMaxlen   uint64
	valueMaxlen uint64
}

// New returns a Cache bounded to capacity entries, using the system
// clock and default key/value size limits.
func New(capacity uint64) *Cache {
	return NewWithClock(capacity, clock.System{})
}

// NewWithClock returns a Cache bounded to capacity entries, using c to
// answer liveness checks. Tests use this with a clock.Manual for
// deterministic expiry scenarios.
func NewWithClock(capacity uint64, c clock.Clock) *Cache {
	return &Cache{
		clock:        c,
		capacity:     capacity,
		entries:      make(map[Key]Value),
		itemLifetime: -1,
		keyMaxlen:    DefaultKeyMaxlen,
		valueMaxlen:  DefaultValueMaxlen,
	}
}

// WithItemLifetime sets the idle-eviction timeout in seconds. A
// negative value disables idle eviction entirely (the default).
// Returns the Cache for chaining.
func (c *Cache) WithItemLifetime(seconds float64) *Cache {
	c.itemLifetime = seconds
	return c
}

// WithKeyMaxlen overrides the maximum accepted key length in bytes.
func (c *Cache) WithKeyMaxlen(n uint64) *Cache {
	c.keyMaxlen = n
	return c
}

// WithValueMaxlen overrides the maximum accepted value length in bytes.
func (c *Cache) WithValueMaxlen(n uint64) *Cache {
	c.valueMaxlen = n
	return c
}

// Capacity returns the configured maximum entry count.
func (c *Cache) Capacity() uint64 {
	return c.capacity
}

// SetItemLifetime updates the idle-eviction timeout at runtime. Safe
// to call concurrently with any other Cache method; capacity is
// deliberately not adjustable this way, since shrinking it while live
// entries exceed the new bound has no well-defined correction.
func (c *Cache) SetItemLifetime(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.itemLifetime = seconds
}

// SetKeyMaxlen updates the maximum accepted key length at runtime.
func (c *Cache) SetKeyMaxlen(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyMaxlen = n
}

// SetValueMaxlen updates the maximum accepted value length at runtime.
func (c *Cache) SetValueMaxlen(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valueMaxlen = n
}

// KeyMaxlen returns the currently configured key size limit.
func (c *Cache) KeyMaxlen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyMaxlen
}

// ValueMaxlen returns the currently configured value size limit.
func (c *Cache) ValueMaxlen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valueMaxlen
}

// Len returns the current number of live-or-not entries stored. Dead
// entries not yet touched by a Get or ContainsKey still count until
// they are read or overwritten.
func (c *Cache) Len() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(len(c.entries))
}

func (c *Cache) checkKeyLen(k Key) error {
	if uint64(k.Len()) > c.keyMaxlen {
		return newErrKeyTooLong(k, c.keyMaxlen)
	}
	return nil
}

func (c *Cache) checkValueLen(v Value) error {
	if uint64(v.Len()) > c.valueMaxlen {
		return newErrValueTooLong(v, c.valueMaxlen)
	}
	return nil
}

// isAlive reports whether v is still live at time now. A positive
// per-entry exptime is authoritative and excludes the idle check;
// otherwise liveness falls back to the idle timeout, which a negative
// itemLifetime disables outright.
func (c *Cache) isAlive(v Value, now float64) bool {
	if v.Exptime > 0 {
		return v.Exptime > now
	}
	if c.itemLifetime < 0 {
		return true
	}
	return v.Atime+c.itemLifetime > now
}

// removeLocked deletes k from entries. Caller must hold c.mu.
func (c *Cache) removeLocked(k Key) {
	delete(c.entries, k)
}

// ContainsKey reports whether a subsequent Get would succeed. It is
// implemented via Get so a dead entry is both reported absent and
// evicted as a side effect. A too-long key also yields false: unlike
// Get, ContainsKey does not report KeyTooLong, so an over-long key is
// indistinguishable from an absent one.
func (c *Cache) ContainsKey(k Key) bool {
	_, err := c.Get(k)
	return err == nil
}

// Get returns the live value stored at k, touching its access time.
// If the entry is absent or has expired it is evicted (if present)
// and a KeyNotFound error is returned.
func (c *Cache) Get(k Key) (Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkKeyLen(k); err != nil {
		return Value{}, err
	}

	v, ok := c.entries[k]
	if !ok {
		return Value{}, newErrKeyNotFound(k)
	}

	now := c.clock.Now()
	if !c.isAlive(v, now) {
		c.removeLocked(k)
		return Value{}, newErrKeyNotFound(k)
	}

	v.touch(now)
	c.entries[k] = v
	return v, nil
}

// Set stores v at k, touching its access time. Capacity is checked
// only when k is not already present in storage; overwriting an
// existing key never fails on capacity, even if that key's entry has
// since died (a dead entry still occupies its slot until a Get or
// ContainsKey observes and evicts it). Key and value size limits are
// enforced unconditionally.
func (c *Cache) Set(k Key, v Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkKeyLen(k); err != nil {
		return err
	}
	if err := c.checkValueLen(v); err != nil {
		return err
	}

	if _, exists := c.entries[k]; !exists {
		if uint64(len(c.entries)) >= c.capacity {
			return newErrCapacityExceeded(c.capacity)
		}
	}

	v.touch(c.clock.Now())
	c.entries[k] = v
	return nil
}
