package server

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memkv/memkv/internal/clock"
	"github.com/memkv/memkv/internal/metrics"
	"github.com/memkv/memkv/pkg/cache"
	"github.com/memkv/memkv/pkg/protocol"
)

func newTestDispatcher(capacity uint64) (*Dispatcher, *clock.Manual) {
	mc := clock.NewManual(0)
	c := cache.NewWithClock(capacity, mc)
	m := metrics.New(prometheus.NewRegistry())
	return NewDispatcher(c, m), mc
}

func TestDispatchStatsOnEmptyCache(t *testing.T) {
	d, _ := newTestDispatcher(10)
	resp := d.Dispatch(protocol.CmdStats{})
	stats, ok := resp.(protocol.RespStats)
	require.True(t, ok)
	assert.Equal(t, "curr_items", stats.Stats[0].Name)
	assert.Equal(t, "0", stats.Stats[0].Value)
}

func TestDispatchGetMiss(t *testing.T) {
	d, _ := newTestDispatcher(10)
	resp := d.Dispatch(protocol.CmdGet{Key: cache.NewKey([]byte("x"))})
	values, ok := resp.(protocol.RespValues)
	require.True(t, ok)
	assert.Empty(t, values.Entries)
}

func TestDispatchSetThenGet(t *testing.T) {
	d, _ := newTestDispatcher(10)

	setResp := d.Dispatch(protocol.CmdSet{
		Key:   cache.NewKey([]byte("x")),
		Value: cache.NewValue([]byte("abc"), 0, 0),
	})
	assert.Equal(t, protocol.RespStored{}, setResp)

	getResp := d.Dispatch(protocol.CmdGet{Key: cache.NewKey([]byte("x"))})
	value, ok := getResp.(protocol.RespValue)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), value.Entry.Value.Payload)
}

func TestDispatchSetCapacityExceeded(t *testing.T) {
	d, _ := newTestDispatcher(1)

	require.Equal(t, protocol.RespStored{}, d.Dispatch(protocol.CmdSet{
		Key:   cache.NewKey([]byte("a")),
		Value: cache.NewValue([]byte("1"), 0, 0),
	}))

	resp := d.Dispatch(protocol.CmdSet{
		Key:   cache.NewKey([]byte("b")),
		Value: cache.NewValue([]byte("2"), 0, 0),
	})
	serverErr, ok := resp.(protocol.RespServerError)
	require.True(t, ok)
	assert.Equal(t, "out of memory", serverErr.Msg)
}

func TestDispatchSetValueTooLong(t *testing.T) {
	d, mc := newTestDispatcher(10)
	_ = mc

	resp := d.Dispatch(protocol.CmdSet{
		Key:   cache.NewKey([]byte("x")),
		Value: cache.NewValue(make([]byte, cache.DefaultValueMaxlen+1), 0, 0),
	})
	clientErr, ok := resp.(protocol.RespClientError)
	require.True(t, ok)
	assert.Equal(t, "value too long", clientErr.Msg)
}
