package pgwire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrSSLRequested is returned by ReadStartup when the client asked for TLS.
// The caller refuses with Writer.RefuseSSL and reads the startup again.
var ErrSSLRequested = errors.New("pgwire: SSL requested")

// Reader decodes frontend messages from a connection.
type Reader struct {
	r   *bufio.Reader
	hdr [4]byte
}

// NewReader wraps r for reading frontend messages.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadStartup reads the untyped startup message.
func (r *Reader) ReadStartup() (*Startup, error) {
	body, err := r.frame(8)
	if err != nil {
		return nil, fmt.Errorf("startup: %w", err)
	}

	version := int32(binary.BigEndian.Uint32(body))
	switch {
	case version == SSLRequestCode:
		return nil, ErrSSLRequested
	case version != ProtocolVersion:
		return nil, fmt.Errorf("unsupported protocol version: %d.%d", version>>16, version&0xFFFF)
	}

	s := &Startup{Version: version, Params: make(map[string]string)}
	rest := body[4:]
	for len(rest) > 0 && rest[0] != 0 {
		var key, val string
		if key, rest, err = cstring(rest); err != nil {
			return nil, fmt.Errorf("startup parameter name: %w", err)
		}
		if val, rest, err = cstring(rest); err != nil {
			return nil, fmt.Errorf("startup parameter %q: %w", key, err)
		}
		s.Params[key] = val
	}
	return s, nil
}

// ReadMessage reads one typed message and returns its type and body.
func (r *Reader) ReadMessage() (byte, []byte, error) {
	typ, err := r.r.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	body, err := r.frame(4)
	if err != nil {
		return 0, nil, fmt.Errorf("message '%c': %w", typ, err)
	}
	return typ, body, nil
}

// frame reads a length word (which counts itself) and the body it covers.
func (r *Reader) frame(minLen int) ([]byte, error) {
	if _, err := io.ReadFull(r.r, r.hdr[:]); err != nil {
		return nil, err
	}
	n := int(int32(binary.BigEndian.Uint32(r.hdr[:])))
	switch {
	case n < minLen:
		return nil, fmt.Errorf("length %d too short", n)
	case n > MaxMessageLength:
		return nil, fmt.Errorf("length %d too long", n)
	}

	body := make([]byte, n-4)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// QueryText decodes the body of a Query message.
func QueryText(body []byte) (string, error) {
	s, _, err := cstring(body)
	return s, err
}

// Password decodes the body of a PasswordMessage.
func Password(body []byte) (string, error) {
	s, _, err := cstring(body)
	return s, err
}

// cstring splits a NUL-terminated string off the front of b.
func cstring(b []byte) (string, []byte, error) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", nil, errors.New("missing string terminator")
	}
	return string(b[:i]), b[i+1:], nil
}
