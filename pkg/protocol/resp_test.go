package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memkv/memkv/pkg/cache"
)

func TestWriteRespErrorVariants(t *testing.T) {
	cases := []struct {
		resp Resp
		want string
	}{
		{RespError{}, "ERROR\r\n"},
		{RespClientError{Msg: "key too long"}, "CLIENT_ERROR key too long\r\n"},
		{RespServerError{Msg: "out of memory"}, "SERVER_ERROR out of memory\r\n"},
		{RespStored{}, "STORED\r\n"},
		{RespNotStored{}, "NOT_STORED\r\n"},
		{RespNotFound{}, "NOT_FOUND\r\n"},
	}

	for _, tc := range cases {
		fs := newFakeStream("")
		tr := NewTransport(fs)
		require.NoError(t, tr.WriteResp(tc.resp))
		assert.Equal(t, tc.want, fs.out.String())
	}
}

func TestWriteRespValues(t *testing.T) {
	fs := newFakeStream("")
	tr := NewTransport(fs)

	resp := RespValues{Entries: []ValueEntry{
		{Key: cache.NewKey([]byte("x")), Value: cache.NewValue([]byte("abc"), 0, 0)},
		{Key: cache.NewKey([]byte("y")), Value: cache.NewValue([]byte("de"), 7, 0)},
	}}
	require.NoError(t, tr.WriteResp(resp))
	assert.Equal(t, "VALUE x 0 3\r\nabc\r\nVALUE y 7 2\r\nde\r\nEND\r\n", fs.out.String())
}

func TestWriteRespValuesEmptyIsEndOnly(t *testing.T) {
	fs := newFakeStream("")
	tr := NewTransport(fs)
	require.NoError(t, tr.WriteResp(RespValues{}))
	assert.Equal(t, "END\r\n", fs.out.String())
}

func TestSetThenGetRoundTrip(t *testing.T) {
	fs := newFakeStream("set x 0 0 3\r\nabc\r\n")
	tr := NewTransport(fs)

	cmd, err := tr.ReadCmd()
	require.NoError(t, err)
	set := cmd.(CmdSet)

	require.NoError(t, tr.WriteResp(RespStored{}))

	require.NoError(t, tr.WriteResp(RespValue{Entry: ValueEntry{Key: set.Key, Value: set.Value}}))

	assert.Equal(t, "STORED\r\nVALUE x 0 3\r\nabc\r\nEND\r\n", fs.out.String())
}
