// Package pgwire implements the subset of the PostgreSQL v3 wire protocol
// rosterdb speaks: startup, cleartext password authentication and simple
// queries.
package pgwire

// ProtocolVersion is v3.0, the only version accepted.
const ProtocolVersion int32 = 3 << 16

// SSLRequestCode replaces the protocol version when a client asks for TLS
// before its real startup message.
const SSLRequestCode int32 = 1234<<16 | 5679

// MaxMessageLength bounds the declared length of any single message,
// startup included.
const MaxMessageLength = 1 << 20

// Frontend message types.
const (
	MsgPasswordMessage byte = 'p'
	MsgQuery           byte = 'Q'
	MsgTerminate       byte = 'X'
)

// Backend message types.
const (
	MsgAuthentication     byte = 'R'
	MsgBackendKeyData     byte = 'K'
	MsgCommandComplete    byte = 'C'
	MsgDataRow            byte = 'D'
	MsgErrorResponse      byte = 'E'
	MsgEmptyQueryResponse byte = 'I'
	MsgNoticeResponse     byte = 'N'
	MsgParameterStatus    byte = 'S'
	MsgReadyForQuery      byte = 'Z'
	MsgRowDescription     byte = 'T'
)

// Authentication request codes carried in 'R' messages.
const (
	AuthOk                int32 = 0
	AuthCleartextPassword int32 = 3
)

// TxIdle is the only transaction status rosterdb reports; it has no
// transactions.
const TxIdle byte = 'I'

// Field codes used in ErrorResponse and NoticeResponse bodies.
const (
	FieldSeverity byte = 'S'
	FieldCode     byte = 'C'
	FieldMessage  byte = 'M'
	FieldDetail   byte = 'D'
)

// Startup is the client's first message after an optional SSL request.
type Startup struct {
	Version int32
	Params  map[string]string
}

// User returns the "user" startup parameter.
func (s *Startup) User() string { return s.Params["user"] }

// ColumnInfo describes a single column in a RowDescription message.
type ColumnInfo struct {
	Name     string
	TypeOID  int32
	TypeSize int16
}

// Notice is a non-error message sent ahead of a command's result.
type Notice struct {
	Message string
	Detail  string
}
