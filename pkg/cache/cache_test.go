package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memkv/memkv/internal/clock"
)

func TestSetAndGet(t *testing.T) {
	c := New(10)
	k := NewKey([]byte("hello"))
	v := NewValue([]byte("world"), 0, 0)

	require.NoError(t, c.Set(k, v))

	got, err := c.Get(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), got.Payload)
}

func TestGetMissing(t *testing.T) {
	c := New(10)
	_, err := c.Get(NewKey([]byte("nope")))
	require.Error(t, err)
	assert.True(t, IsKeyNotFound(err))
}

func TestCapacityRejectsNewKey(t *testing.T) {
	c := New(1)
	require.NoError(t, c.Set(NewKey([]byte("a")), NewValue([]byte("1"), 0, 0)))

	err := c.Set(NewKey([]byte("b")), NewValue([]byte("2"), 0, 0))
	require.Error(t, err)
	assert.True(t, IsCapacityExceeded(err))
	assert.EqualValues(t, 1, c.Len())
}

func TestZeroCapacityRejectsEveryNewKey(t *testing.T) {
	c := New(0)
	err := c.Set(NewKey([]byte("a")), NewValue([]byte("1"), 0, 0))
	require.Error(t, err)
	assert.True(t, IsCapacityExceeded(err))
	assert.EqualValues(t, 0, c.Len())
}

func TestCapacityAllowsOverwrite(t *testing.T) {
	c := New(1)
	k := NewKey([]byte("a"))
	require.NoError(t, c.Set(k, NewValue([]byte("1"), 0, 0)))
	require.NoError(t, c.Set(k, NewValue([]byte("2"), 0, 0)))

	got, err := c.Get(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got.Payload)
}

func TestKeyTooLong(t *testing.T) {
	c := New(10).WithKeyMaxlen(4)
	err := c.Set(NewKey([]byte("toolong")), NewValue([]byte("v"), 0, 0))
	require.Error(t, err)
	assert.True(t, IsKeyTooLong(err))
}

func TestValueTooLong(t *testing.T) {
	c := New(10).WithValueMaxlen(2)
	err := c.Set(NewKey([]byte("k")), NewValue([]byte("toolong"), 0, 0))
	require.Error(t, err)
	assert.True(t, IsValueTooLong(err))
}

func TestExpiryByExptime(t *testing.T) {
	mc := clock.NewManual(100)
	c := NewWithClock(10, mc)

	k := NewKey([]byte("k"))
	require.NoError(t, c.Set(k, NewValue([]byte("v"), 0, 105)))

	assert.True(t, c.ContainsKey(k))

	mc.Set(105)
	assert.False(t, c.ContainsKey(k))
	assert.EqualValues(t, 0, c.Len())
}

func TestExpiryByItemLifetime(t *testing.T) {
	mc := clock.NewManual(0)
	c := NewWithClock(10, mc).WithItemLifetime(30)

	k := NewKey([]byte("k"))
	require.NoError(t, c.Set(k, NewValue([]byte("v"), 0, 0)))

	mc.Set(29)
	assert.True(t, c.ContainsKey(k))

	// ContainsKey goes through Get, which touched atime to 29, so the
	// entry dies once now reaches 29 + 30.
	mc.Set(59)
	_, err := c.Get(k)
	require.Error(t, err)
	assert.True(t, IsKeyNotFound(err))
}

func TestGetTouchesAtimeAndResetsIdleTimer(t *testing.T) {
	mc := clock.NewManual(0)
	c := NewWithClock(10, mc).WithItemLifetime(10)

	k := NewKey([]byte("k"))
	require.NoError(t, c.Set(k, NewValue([]byte("v"), 0, 0)))

	mc.Set(9)
	_, err := c.Get(k)
	require.NoError(t, err)

	mc.Set(18)
	_, err = c.Get(k)
	require.NoError(t, err)
}

func TestEvictOnDeadReadDecrementsLen(t *testing.T) {
	mc := clock.NewManual(0)
	c := NewWithClock(5, mc)

	k := NewKey([]byte("k"))
	require.NoError(t, c.Set(k, NewValue([]byte("v"), 0, 1)))
	assert.EqualValues(t, 1, c.Len())

	mc.Set(1)
	_, err := c.Get(k)
	require.Error(t, err)
	assert.EqualValues(t, 0, c.Len())
}

func TestDeadEntryStillOccupiesSlotUntilObserved(t *testing.T) {
	mc := clock.NewManual(0)
	c := NewWithClock(1, mc)

	require.NoError(t, c.Set(NewKey([]byte("a")), NewValue([]byte("1"), 0, 1)))
	mc.Set(1)

	// "a" has died but nothing has read it yet, so its slot is still
	// occupied: a new key is rejected until a Get/ContainsKey evicts it.
	err := c.Set(NewKey([]byte("b")), NewValue([]byte("2"), 0, 0))
	require.Error(t, err)
	assert.True(t, IsCapacityExceeded(err))

	assert.False(t, c.ContainsKey(NewKey([]byte("a"))))

	require.NoError(t, c.Set(NewKey([]byte("b")), NewValue([]byte("2"), 0, 0)))
}

func TestGetKeyTooLong(t *testing.T) {
	c := New(10).WithKeyMaxlen(2)
	_, err := c.Get(NewKey([]byte("toolong")))
	require.Error(t, err)
	assert.True(t, IsKeyTooLong(err))
}

func TestZeroExptimeNeverExpiresByItself(t *testing.T) {
	mc := clock.NewManual(0)
	c := NewWithClock(10, mc)

	k := NewKey([]byte("k"))
	require.NoError(t, c.Set(k, NewValue([]byte("v"), 0, 0)))

	mc.Set(1_000_000)
	assert.True(t, c.ContainsKey(k))
}
