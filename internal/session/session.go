// Package session implements the per-connection dispatch loop: message
// framing, version negotiation, and routing of Connect/ListDatabases/
// ListTables/SQL-text/Close messages to the database evaluator and
// persistence backend.
package session

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chahine-tech/reldb/internal/database"
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/parser"
	"github.com/chahine-tech/reldb/internal/protocol"
)

// Session is one negotiated connection's state: its own Runtime (per
// spec section 5, shared state lives only in the persistence backend),
// the negotiated serializer version, and a correlation ID for logging.
type Session struct {
	ID      uuid.UUID
	conn    net.Conn
	rt      *database.Runtime
	version byte
	log     *logrus.Entry
}

// Accept performs version negotiation over conn and returns a Session
// ready to Run. backend is shared across sessions; everything else is
// exclusive to this connection.
func Accept(conn net.Conn, backend database.Backend, supported []byte, log *logrus.Logger) (*Session, error) {
	id := uuid.New()
	entry := log.WithField("session", id.String())

	version, err := protocol.NegotiateServer(conn, supported)
	if err != nil {
		entry.WithError(err).Warn("version negotiation failed")
		return nil, err
	}
	entry.WithField("version", version).Info("session negotiated")

	return &Session{
		ID:      id,
		conn:    conn,
		rt:      database.NewRuntime(backend),
		version: version,
		log:     entry,
	}, nil
}

// Run drives the dispatch loop until the peer sends Close or closes the
// connection, or a read or write on the connection fails.
func (s *Session) Run() error {
	defer s.conn.Close()
	defer s.rt.Clear()
	for {
		payload, err := protocol.ReadFrame(s.conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.WithError(err).Warn("read failed, ending session")
			return err
		}

		msg, err := protocol.DecodeMessage(payload)
		if err != nil {
			s.log.WithError(err).Warn("malformed message")
			if werr := s.reply(protocol.ErrorMessage(err.Error())); werr != nil {
				return werr
			}
			continue
		}

		done, err := s.handle(msg)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Session) reply(msg protocol.Message) error {
	if err := protocol.WriteFrame(s.conn, protocol.EncodeMessage(msg)); err != nil {
		s.log.WithError(err).Warn("write failed")
		return err
	}
	return nil
}

// handle dispatches one decoded message and reports whether the session
// should terminate.
func (s *Session) handle(msg protocol.Message) (bool, error) {
	switch msg.Type {
	case protocol.Close:
		s.log.Info("session closed by peer")
		return true, nil

	case protocol.Command:
		return false, s.handleCommand(msg.Cmd)

	case protocol.Str:
		return false, s.handleSQL(msg.Text)

	default:
		return false, s.reply(protocol.ErrorMessage(fmt.Sprintf("unexpected message type %d", msg.Type)))
	}
}

func (s *Session) handleCommand(cmd protocol.Command) error {
	switch cmd.Kind {
	case protocol.Connect:
		db, err := s.rt.Backend.LoadDatabase(cmd.Arg)
		if err != nil {
			if dbErr, ok := err.(*errs.Error); ok && dbErr.Code == "DatabaseDoesNotExist" {
				db = database.New(cmd.Arg)
			} else {
				s.log.WithError(err).Warn("connect failed")
				return s.reply(protocol.StrMessage("ERROR: " + err.Error()))
			}
		}
		s.rt.Select(db)
		return s.reply(protocol.OkMessage())

	case protocol.ListDatabases:
		text, err := describeListDatabases(s.rt)
		if err != nil {
			s.log.WithError(err).Warn("list databases failed")
			return s.reply(protocol.StrMessage("ERROR: " + err.Error()))
		}
		return s.reply(protocol.StrMessage(text))

	case protocol.ListTables:
		return s.reply(protocol.StrMessage(describeListTables(s.rt)))

	default:
		return s.reply(protocol.ErrorMessage(fmt.Sprintf("unknown command %d", cmd.Kind)))
	}
}

func describeListDatabases(rt *database.Runtime) (string, error) {
	names, err := rt.Backend.ListDatabases()
	if err != nil {
		return "", err
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "(no databases)", nil
	}
	return strings.Join(names, ", "), nil
}

func describeListTables(rt *database.Runtime) string {
	if rt.Current == nil {
		return "no database selected"
	}
	names := rt.Current.TableNames()
	sort.Strings(names)
	if len(names) == 0 {
		return "(no tables)"
	}
	return strings.Join(names, ", ")
}

// handleSQL parses and evaluates sql, replies per spec section 4.8's
// result taxonomy, and persists the current database if the statement
// mutated it.
func (s *Session) handleSQL(sql string) error {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return s.reply(protocol.StrMessage("ERROR: " + err.Error()))
	}

	result, err := database.Evaluate(s.rt, stmt)
	if err != nil {
		s.log.WithError(err).Warn("evaluation error")
		return s.reply(protocol.StrMessage("ERROR: " + err.Error()))
	}

	if database.IsMutating(stmt) && s.rt.Current != nil {
		if err := s.rt.Backend.SaveDatabase(s.rt.Current); err != nil {
			s.log.WithError(err).Error("failed to persist database after mutation")
			return s.reply(protocol.StrMessage("ERROR: " + err.Error()))
		}
	}

	switch result.Kind {
	case database.ResultSelect:
		return s.reply(protocol.RowSetMessage(result.RowSet))
	case database.ResultCreateDatabase:
		return s.reply(protocol.StrMessage("created database " + result.Name))
	case database.ResultDropDatabase:
		return s.reply(protocol.StrMessage("dropped database " + result.Name))
	case database.ResultCreateTable:
		return s.reply(protocol.StrMessage("created table " + result.Name))
	case database.ResultDropTable:
		return s.reply(protocol.StrMessage("dropped table " + result.Name))
	default:
		return s.reply(protocol.OkMessage())
	}
}
