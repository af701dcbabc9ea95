package protocol

import "github.com/memkv/memkv/pkg/cache"

// Resp is a reply variant serialized onto the transport by WriteResp.
// isResp is unexported so no other package can introduce new variants.
type Resp interface {
	isResp()
}

// RespError is a bare protocol error, rendered as ERROR.
type RespError struct{}

func (RespError) isResp() {}

// RespClientError carries a client-caused failure message.
type RespClientError struct {
	Msg string
}

func (RespClientError) isResp() {}

// RespServerError carries a server-side failure message.
type RespServerError struct {
	Msg string
}

func (RespServerError) isResp() {}

// RespStored confirms a successful set.
type RespStored struct{}

func (RespStored) isResp() {}

// RespNotStored indicates a set was refused.
type RespNotStored struct{}

func (RespNotStored) isResp() {}

// RespNotFound indicates a lookup found nothing.
type RespNotFound struct{}

func (RespNotFound) isResp() {}

// ValueEntry pairs a key with the stored value for rendering a VALUE
// line; Key is carried alongside cache.Value because the cache layer
// itself is keyed but doesn't echo the key back on read.
type ValueEntry struct {
	Key   cache.Key
	Value cache.Value
}

// RespValue renders a single VALUE/payload/END block.
type RespValue struct {
	Entry ValueEntry
}

func (RespValue) isResp() {}

// RespValues renders zero or more VALUE/payload blocks followed by a
// single trailing END. Zero entries is the canonical "get miss" shape.
type RespValues struct {
	Entries []ValueEntry
}

func (RespValues) isResp() {}

// Stat is a single name/value counter line for the stats command.
type Stat struct {
	Name  string
	Value string
}

// RespStats renders a list of counters followed by END.
type RespStats struct {
	Stats []Stat
}

func (RespStats) isResp() {}
