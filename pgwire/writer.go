package pgwire

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Writer encodes backend messages. Messages are buffered until Flush.
type Writer struct {
	w   *bufio.Writer
	buf []byte
}

// NewWriter wraps w for writing backend messages.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), buf: make([]byte, 0, 1024)}
}

// Flush writes buffered messages to the connection.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// RefuseSSL answers an SSL request with a single 'N' and flushes.
func (w *Writer) RefuseSSL() error {
	if err := w.w.WriteByte('N'); err != nil {
		return err
	}
	return w.Flush()
}

// RequestPassword asks the client for a cleartext password and flushes.
func (w *Writer) RequestPassword() error {
	w.start(MsgAuthentication)
	w.putInt32(AuthCleartextPassword)
	if err := w.end(); err != nil {
		return err
	}
	return w.Flush()
}

// Welcome completes authentication: AuthenticationOk, the given server
// parameters, BackendKeyData and the first ReadyForQuery. It flushes.
func (w *Writer) Welcome(params [][2]string, pid, secret int32) error {
	w.start(MsgAuthentication)
	w.putInt32(AuthOk)
	if err := w.end(); err != nil {
		return err
	}
	for _, p := range params {
		w.start(MsgParameterStatus)
		w.putString(p[0])
		w.putString(p[1])
		if err := w.end(); err != nil {
			return err
		}
	}
	w.start(MsgBackendKeyData)
	w.putInt32(pid)
	w.putInt32(secret)
	if err := w.end(); err != nil {
		return err
	}
	return w.Ready()
}

// Ready sends ReadyForQuery and flushes. It ends every query cycle.
func (w *Writer) Ready() error {
	w.start(MsgReadyForQuery)
	w.buf = append(w.buf, TxIdle)
	if err := w.end(); err != nil {
		return err
	}
	return w.Flush()
}

// WriteResult sends a complete command response: RowDescription and
// DataRows when columns is non-nil, then CommandComplete. A nil value in a
// row is sent as NULL.
func (w *Writer) WriteResult(columns []ColumnInfo, rows [][][]byte, tag string) error {
	if columns != nil {
		w.start(MsgRowDescription)
		w.putInt16(int16(len(columns)))
		for _, c := range columns {
			w.putString(c.Name)
			w.putInt32(0) // table OID
			w.putInt16(0) // attribute number
			w.putInt32(c.TypeOID)
			w.putInt16(c.TypeSize)
			w.putInt32(-1) // type modifier
			w.putInt16(0)  // text format
		}
		if err := w.end(); err != nil {
			return err
		}

		for _, row := range rows {
			w.start(MsgDataRow)
			w.putInt16(int16(len(row)))
			for _, v := range row {
				if v == nil {
					w.putInt32(-1)
					continue
				}
				w.putInt32(int32(len(v)))
				w.buf = append(w.buf, v...)
			}
			if err := w.end(); err != nil {
				return err
			}
		}
	}

	w.start(MsgCommandComplete)
	w.putString(tag)
	return w.end()
}

// WriteEmptyQuery answers a query string with no command in it.
func (w *Writer) WriteEmptyQuery() error {
	w.start(MsgEmptyQueryResponse)
	return w.end()
}

// WriteError sends an ErrorResponse.
func (w *Writer) WriteError(severity, code, message string) error {
	w.start(MsgErrorResponse)
	w.fields(severity, code, message, "")
	return w.end()
}

// WriteNotice sends a NoticeResponse. Clients surface it alongside the
// result of the query it precedes.
func (w *Writer) WriteNotice(n Notice) error {
	w.start(MsgNoticeResponse)
	w.fields("NOTICE", "00000", n.Message, n.Detail)
	return w.end()
}

func (w *Writer) fields(severity, code, message, detail string) {
	w.buf = append(w.buf, FieldSeverity)
	w.putString(severity)
	w.buf = append(w.buf, FieldCode)
	w.putString(code)
	w.buf = append(w.buf, FieldMessage)
	w.putString(message)
	if detail != "" {
		w.buf = append(w.buf, FieldDetail)
		w.putString(detail)
	}
	w.buf = append(w.buf, 0)
}

// start resets the buffer to a type byte and a length placeholder.
func (w *Writer) start(typ byte) {
	w.buf = append(w.buf[:0], typ, 0, 0, 0, 0)
}

// end patches the length (which excludes the type byte) and buffers the
// message.
func (w *Writer) end() error {
	binary.BigEndian.PutUint32(w.buf[1:5], uint32(len(w.buf)-1))
	_, err := w.w.Write(w.buf)
	return err
}

func (w *Writer) putInt32(v int32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) putInt16(v int16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(v))
}

func (w *Writer) putString(s string) {
	w.buf = append(append(w.buf, s...), 0)
}
