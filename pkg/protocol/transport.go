// Package protocol implements the text-line wire framing: reading
// bytes off a duplex stream into a Cmd, and rendering a Resp back onto
// it. Reads are unbuffered — each ReadByte pulls exactly one byte from
// the underlying stream — while writes accumulate in memory and are
// flushed as a single underlying write.
package protocol

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/memkv/memkv/pkg/cache"
)

// defaultMaxCmdLineLen bounds the header line read by ReadCmd. It must
// be large enough for the longest set header plus the configured
// key_maxlen; the server wires the live key_maxlen in via
// SetMaxCmdLineLen whenever that limit changes.
const defaultMaxCmdLineLen = 512

// defaultMaxPayloadLen bounds the payload a set command is allowed to
// declare, matching cache.DefaultValueMaxlen until the server wires the
// live value_maxlen in via SetMaxPayloadLen.
const defaultMaxPayloadLen = cache.DefaultValueMaxlen

// Stream is the duplex byte stream a Transport is built on top of.
// net.Conn satisfies it directly.
type Stream interface {
	io.Reader
	io.Writer
}

// Transport turns a Stream into command/response framing.
type Transport struct {
	stream Stream
	out    []byte

	maxCmdLineLen int
	maxPayloadLen int
}

// NewTransport wraps stream in a Transport.
func NewTransport(stream Stream) *Transport {
	return &Transport{
		stream:        stream,
		maxCmdLineLen: defaultMaxCmdLineLen,
		maxPayloadLen: defaultMaxPayloadLen,
	}
}

// SetMaxCmdLineLen overrides the header-line bound used by ReadCmd,
// tracking a runtime change to the cache's key_maxlen.
func (t *Transport) SetMaxCmdLineLen(n int) {
	t.maxCmdLineLen = n
}

// SetMaxPayloadLen overrides the declared set-payload bound used by
// ReadCmd, tracking a runtime change to the cache's value_maxlen. A set
// command declaring more bytes than this is rejected before any payload
// allocation or read is attempted, so a client cannot force a large
// allocation merely by naming a large byte count.
func (t *Transport) SetMaxPayloadLen(n int) {
	t.maxPayloadLen = n
}

// ReadByte reads exactly one byte from the underlying stream.
func (t *Transport) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(t.stream, b[:]); err != nil {
		return 0, newErrStreamRead(err)
	}
	return b[0], nil
}

// ReadBytes reads exactly n bytes from the underlying stream.
func (t *Transport) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(t.stream, buf); err != nil {
		return nil, newErrStreamRead(err)
	}
	return buf, nil
}

// ReadLine reads at most maxLen bytes including the trailing CR+LF and
// returns the content strictly before it. Only CR is treated
// specially: encountering one, the next byte must be LF or the read
// fails with LineReadError. Any other byte, including a bare LF, is
// ordinary line content. This rejects bare-LF termination without
// needing a lookahead buffer: a stream that never produces a CR simply
// runs out of bytes, which surfaces as the underlying StreamReadError.
func (t *Transport) ReadLine(maxLen int) ([]byte, error) {
	content := make([]byte, 0, 64)
	for {
		b, err := t.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == '\r' {
			nl, err := t.ReadByte()
			if err != nil {
				return nil, err
			}
			if nl != '\n' {
				return nil, newErrLineRead("CR not followed by LF")
			}
			return content, nil
		}
		content = append(content, b)
		if len(content) > maxLen-2 {
			return nil, newErrLineRead("line exceeds maximum length")
		}
	}
}

// WriteBytes appends b to the outgoing buffer.
func (t *Transport) WriteBytes(b []byte) int {
	t.out = append(t.out, b...)
	return len(b)
}

// WriteString appends the UTF-8 bytes of s to the outgoing buffer.
func (t *Transport) WriteString(s string) int {
	return t.WriteBytes([]byte(s))
}

// FlushWrites drains the outgoing buffer to the underlying stream in
// one write.
func (t *Transport) FlushWrites() error {
	if len(t.out) == 0 {
		return nil
	}
	if _, err := t.stream.Write(t.out); err != nil {
		return newErrStreamWrite(err)
	}
	t.out = t.out[:0]
	return nil
}

// AsString decodes b as strict UTF-8.
func AsString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", newErrUtf8()
	}
	return string(b), nil
}

// Unsigned bounds the integer widths AsNumber understands.
type Unsigned interface {
	~uint16 | ~uint32 | ~uint64
}

// AsNumber parses b as an ASCII decimal unsigned integer of width T.
// Any non-digit byte, including embedded whitespace, or a value that
// overflows T is a NumberParseError.
func AsNumber[T Unsigned](b []byte) (T, error) {
	if len(b) == 0 {
		return 0, newErrNumberParse("empty token")
	}

	limit := uint64(^T(0))

	var acc uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, newErrNumberParse("non-digit byte")
		}
		d := uint64(c - '0')
		if acc > (limit-d)/10 {
			return 0, newErrNumberParse("overflow")
		}
		acc = acc*10 + d
	}
	return T(acc), nil
}

// ParseWord splits b on the first 0x20 byte. If no space is found, the
// whole input is word and rest is nil. When a space is found, rest
// includes the delimiter itself so a caller chaining further ParseWord
// calls must strip it explicitly — this lets a trailing lone space be
// told apart from "no more tokens".
func ParseWord(b []byte) (word, rest []byte) {
	idx := bytes.IndexByte(b, ' ')
	if idx < 0 {
		return b, nil
	}
	return b[:idx], b[idx:]
}

// nextToken consumes one ParseWord-delimited token from rest, which
// must begin with the separator space left by a previous ParseWord
// call (or be the first token after a verb). ok is false if rest is
// empty or malformed, signaling a missing required token.
func nextToken(rest []byte) (tok, remainder []byte, ok bool) {
	if len(rest) == 0 || rest[0] != ' ' {
		return nil, nil, false
	}
	word, next := ParseWord(rest[1:])
	return word, next, true
}

// ReadCmd reads one full command from the transport.
func (t *Transport) ReadCmd() (Cmd, error) {
	line, err := t.ReadLine(t.maxCmdLineLen)
	if err != nil {
		return nil, err
	}

	verb, rest := ParseWord(line)
	switch string(verb) {
	case "stats":
		if len(rest) != 0 {
			return nil, newErrCommandParse("stats takes no arguments")
		}
		return CmdStats{}, nil
	case "get":
		return t.readGetCmd(rest)
	case "set":
		return t.readSetCmd(rest)
	default:
		return nil, newErrInvalidCmd(string(verb))
	}
}

func (t *Transport) readGetCmd(rest []byte) (Cmd, error) {
	keyBytes, remainder, ok := nextToken(rest)
	if !ok {
		return nil, newErrCommandParse("get requires a key")
	}
	if len(remainder) != 0 {
		return nil, newErrCommandParse("unexpected data after key")
	}

	key, err := AsString(keyBytes)
	if err != nil {
		return nil, err
	}
	return CmdGet{Key: cache.NewKey([]byte(key))}, nil
}

func (t *Transport) readSetCmd(rest []byte) (Cmd, error) {
	keyBytes, rest, ok := nextToken(rest)
	if !ok {
		return nil, newErrCommandParse("set requires a key")
	}
	flagsBytes, rest, ok := nextToken(rest)
	if !ok {
		return nil, newErrCommandParse("set requires flags")
	}
	exptimeBytes, rest, ok := nextToken(rest)
	if !ok {
		return nil, newErrCommandParse("set requires exptime")
	}
	bytesBytes, rest, ok := nextToken(rest)
	if !ok {
		return nil, newErrCommandParse("set requires a byte count")
	}
	if len(rest) != 0 {
		return nil, newErrCommandParse("unexpected data after byte count")
	}

	key, err := AsString(keyBytes)
	if err != nil {
		return nil, err
	}
	flags, err := AsNumber[uint16](flagsBytes)
	if err != nil {
		return nil, err
	}
	exptime, err := AsNumber[uint32](exptimeBytes)
	if err != nil {
		return nil, err
	}
	n, err := AsNumber[uint32](bytesBytes)
	if err != nil {
		return nil, err
	}
	if int(n) > t.maxPayloadLen {
		return nil, newErrCommandParse("byte count exceeds maximum value length")
	}

	payload, err := t.readSetBody(int(n))
	if err != nil {
		return nil, err
	}

	return CmdSet{
		Key:   cache.NewKey([]byte(key)),
		Value: cache.NewValue(payload, flags, float64(exptime)),
	}, nil
}

// readSetBody reads the n-byte payload plus its CR+LF terminator. A
// terminator that isn't exactly CR+LF is a CommandParseError — the
// payload read consumed bytes that belonged to the terminator, leaving
// a malformed tail. A stream that ends before n+2 bytes are available
// surfaces as the StreamReadError from the underlying read.
func (t *Transport) readSetBody(n int) ([]byte, error) {
	payload, err := t.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	term, err := t.ReadBytes(2)
	if err != nil {
		return nil, err
	}
	if term[0] != '\r' || term[1] != '\n' {
		return nil, newErrCommandParse("payload not terminated by CRLF")
	}
	return payload, nil
}

// WriteResp renders r onto the outgoing buffer and flushes it.
func (t *Transport) WriteResp(r Resp) error {
	switch v := r.(type) {
	case RespError:
		t.WriteString("ERROR\r\n")
	case RespClientError:
		t.WriteString("CLIENT_ERROR " + v.Msg + "\r\n")
	case RespServerError:
		t.WriteString("SERVER_ERROR " + v.Msg + "\r\n")
	case RespStored:
		t.WriteString("STORED\r\n")
	case RespNotStored:
		t.WriteString("NOT_STORED\r\n")
	case RespNotFound:
		t.WriteString("NOT_FOUND\r\n")
	case RespValue:
		t.writeValueLine(v.Entry)
		t.WriteString("END\r\n")
	case RespValues:
		for _, e := range v.Entries {
			t.writeValueLine(e)
		}
		t.WriteString("END\r\n")
	case RespStats:
		for _, s := range v.Stats {
			t.WriteString(s.Name + " " + s.Value + "\r\n")
		}
		t.WriteString("END\r\n")
	default:
		return newErrCommandParse("unknown response variant")
	}
	return t.FlushWrites()
}

func (t *Transport) writeValueLine(e ValueEntry) {
	t.WriteString(fmt.Sprintf("VALUE %s %d %d\r\n", e.Key.String(), e.Value.Flags, e.Value.Len()))
	t.WriteBytes(e.Value.Payload)
	t.WriteString("\r\n")
}
