package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"

	"rosterdb/config"
	"rosterdb/executor"
	"rosterdb/pgwire"
	"rosterdb/version"
)

// authError is a startup failure the client is told about before the
// connection closes.
type authError struct {
	code string
	msg  string
}

func (e *authError) Error() string { return e.msg }

// conn serves one client: handshake, then a simple-query loop.
type conn struct {
	nc   net.Conn
	in   *pgwire.Reader
	out  *pgwire.Writer
	cfg  *config.Config
	exec *executor.Executor
	log  *slog.Logger
}

func newConn(nc net.Conn, cfg *config.Config, exec *executor.Executor, log *slog.Logger) *conn {
	return &conn{
		nc:   nc,
		in:   pgwire.NewReader(nc),
		out:  pgwire.NewWriter(nc),
		cfg:  cfg,
		exec: exec,
		log:  log,
	}
}

// serve runs the connection to completion and closes it.
func (c *conn) serve() {
	defer c.nc.Close()

	if err := c.handshake(); err != nil {
		var ae *authError
		if errors.As(err, &ae) {
			c.out.WriteError("FATAL", ae.code, ae.msg)
			c.out.Flush()
		}
		c.log.Warn("handshake failed", "error", err)
		return
	}
	c.log.Info("authenticated")

	err := c.loop()
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		c.log.Info("disconnected")
	default:
		c.log.Warn("connection closed", "error", err)
	}
}

func (c *conn) handshake() error {
	startup, err := c.readStartup()
	if err != nil {
		return err
	}

	user := startup.User()
	if user != c.cfg.User {
		return &authError{code: "28000", msg: fmt.Sprintf("authentication failed for user %q", user)}
	}
	if err := c.out.RequestPassword(); err != nil {
		return err
	}

	typ, body, err := c.in.ReadMessage()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if typ != pgwire.MsgPasswordMessage {
		return fmt.Errorf("expected password message, got '%c'", typ)
	}
	password, err := pgwire.Password(body)
	if err != nil {
		return fmt.Errorf("password message: %w", err)
	}
	if password != c.cfg.Password {
		return &authError{code: "28P01", msg: fmt.Sprintf("password authentication failed for user %q", user)}
	}

	params := [][2]string{
		{"server_version", version.String()},
		{"server_encoding", "UTF8"},
		{"client_encoding", "UTF8"},
		{"standard_conforming_strings", "on"},
	}
	return c.out.Welcome(params, int32(os.Getpid()), 0)
}

// readStartup refuses any SSL requests and returns the real startup message.
func (c *conn) readStartup() (*pgwire.Startup, error) {
	for {
		s, err := c.in.ReadStartup()
		if errors.Is(err, pgwire.ErrSSLRequested) {
			if err := c.out.RefuseSSL(); err != nil {
				return nil, err
			}
			continue
		}
		return s, err
	}
}

// loop answers messages until Terminate, EOF or an I/O error.
func (c *conn) loop() error {
	for {
		typ, body, err := c.in.ReadMessage()
		if err != nil {
			return err
		}

		switch typ {
		case pgwire.MsgQuery:
			query, err := pgwire.QueryText(body)
			if err != nil {
				return fmt.Errorf("query message: %w", err)
			}
			if err := c.query(strings.TrimSpace(query)); err != nil {
				return err
			}
		case pgwire.MsgTerminate:
			return nil
		default:
			c.log.Warn("unsupported message type", "type", string(typ))
		}
	}
}

// query runs one command and writes its full response cycle.
func (c *conn) query(q string) error {
	if err := c.respond(q); err != nil {
		return err
	}
	return c.out.Ready()
}

func (c *conn) respond(q string) error {
	if q == "" {
		return c.out.WriteEmptyQuery()
	}
	// psql and some drivers send SET during startup.
	if strings.HasPrefix(strings.ToUpper(q), "SET ") {
		return c.out.WriteResult(nil, nil, "SET")
	}

	res, err := c.exec.Execute(q)
	if err != nil {
		code := executor.CodeUnsupported
		var qe *executor.QueryError
		if errors.As(err, &qe) {
			code = qe.Code
		}
		c.log.Debug("command failed", "command", q, "code", code, "error", err)
		return c.out.WriteError("ERROR", code, err.Error())
	}

	if res.Counted {
		c.log.Debug("command", "command", q, "tag", res.Tag, "comparisons", res.Comparisons)
		n := pgwire.Notice{Message: fmt.Sprintf("%d comparisons", res.Comparisons)}
		if err := c.out.WriteNotice(n); err != nil {
			return err
		}
	} else {
		c.log.Debug("command", "command", q, "tag", res.Tag)
	}

	var cols []pgwire.ColumnInfo
	if res.Columns != nil {
		cols = make([]pgwire.ColumnInfo, len(res.Columns))
		for i, rc := range res.Columns {
			cols[i] = pgwire.ColumnInfo{Name: rc.Name, TypeOID: rc.TypeOID, TypeSize: rc.TypeSize}
		}
	}
	return c.out.WriteResult(cols, res.Rows, res.Tag)
}
