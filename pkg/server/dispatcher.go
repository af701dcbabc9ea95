package server

import (
	"github.com/memkv/memkv/internal/metrics"
	"github.com/memkv/memkv/pkg/cache"
	"github.com/memkv/memkv/pkg/protocol"
)

// Dispatcher maps a decoded Cmd to a Cache operation and chooses the
// Resp to send back. It holds no per-connection state; a single
// Dispatcher is shared by every connection the way the Cache itself
// is.
type Dispatcher struct {
	cache   *cache.Cache
	metrics *metrics.Metrics
}

// NewDispatcher builds a Dispatcher over c, recording outcomes to m.
func NewDispatcher(c *cache.Cache, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{cache: c, metrics: m}
}

// KeyMaxlen returns the cache's currently configured key size limit, so
// a connection's Transport can size its command-line bound to match —
// key_maxlen may change at runtime via hot-reload.
func (d *Dispatcher) KeyMaxlen() uint64 {
	return d.cache.KeyMaxlen()
}

// ValueMaxlen returns the cache's currently configured value size
// limit, so a connection's Transport can size its declared-payload
// bound to match — value_maxlen may change at runtime via hot-reload.
func (d *Dispatcher) ValueMaxlen() uint64 {
	return d.cache.ValueMaxlen()
}

// Dispatch executes cmd against the cache and returns the Resp to
// write back to the client.
func (d *Dispatcher) Dispatch(cmd protocol.Cmd) protocol.Resp {
	switch c := cmd.(type) {
	case protocol.CmdStats:
		return d.dispatchStats()
	case protocol.CmdGet:
		return d.dispatchGet(c)
	case protocol.CmdSet:
		return d.dispatchSet(c)
	default:
		return protocol.RespError{}
	}
}

func (d *Dispatcher) dispatchStats() protocol.Resp {
	d.metrics.ObserveStats()
	return protocol.RespStats{Stats: d.metrics.Snapshot(d.cache.Len())}
}

func (d *Dispatcher) dispatchGet(c protocol.CmdGet) protocol.Resp {
	v, err := d.cache.Get(c.Key)
	if err != nil {
		if cache.IsKeyTooLong(err) {
			d.metrics.ObserveGetClientError()
			return protocol.RespClientError{Msg: "key too long"}
		}
		d.metrics.ObserveGetMiss()
		return protocol.RespValues{}
	}

	d.metrics.ObserveGetHit()
	return protocol.RespValue{Entry: protocol.ValueEntry{Key: c.Key, Value: v}}
}

func (d *Dispatcher) dispatchSet(c protocol.CmdSet) protocol.Resp {
	err := d.cache.Set(c.Key, c.Value)
	if err == nil {
		d.metrics.ObserveSetStored()
		return protocol.RespStored{}
	}

	switch {
	case cache.IsKeyTooLong(err):
		d.metrics.ObserveSetClientError()
		return protocol.RespClientError{Msg: "key too long"}
	case cache.IsValueTooLong(err):
		d.metrics.ObserveSetClientError()
		return protocol.RespClientError{Msg: "value too long"}
	case cache.IsCapacityExceeded(err):
		d.metrics.ObserveSetCapacityExceeded()
		return protocol.RespServerError{Msg: "out of memory"}
	default:
		d.metrics.ObserveSetClientError()
		return protocol.RespClientError{Msg: "set failed"}
	}
}
