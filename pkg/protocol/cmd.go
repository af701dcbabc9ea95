package protocol

import "github.com/memkv/memkv/pkg/cache"

// Cmd is a decoded client request. The concrete variants are CmdStats,
// CmdGet and CmdSet; isCmd is unexported so no other package can
// introduce new variants.
type Cmd interface {
	isCmd()
}

// CmdStats requests the server's counters.
type CmdStats struct{}

func (CmdStats) isCmd() {}

// CmdGet requests the value stored at Key.
type CmdGet struct {
	Key cache.Key
}

func (CmdGet) isCmd() {}

// CmdSet requests that Value be stored at Key.
type CmdSet struct {
	Key   cache.Key
	Value cache.Value
}

func (CmdSet) isCmd() {}
