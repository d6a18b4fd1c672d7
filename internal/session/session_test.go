package session

import (
	"io"
	"net"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/chahine-tech/reldb/internal/persistence"
	"github.com/chahine-tech/reldb/internal/protocol"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// harness spins up a Session on one end of a net.Pipe, negotiates the
// handshake from the test's side, and returns the client conn for the
// test to drive.
func harness(t *testing.T) net.Conn {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	backend := persistence.NewMemBackend()

	errCh := make(chan error, 1)
	go func() {
		sess, err := Accept(serverConn, backend, []byte{1, 2}, quietLogger())
		if err != nil {
			errCh <- err
			return
		}
		errCh <- sess.Run()
	}()

	if _, err := protocol.NegotiateClient(clientConn, []byte{2}); err != nil {
		t.Fatalf("NegotiateClient: %v", err)
	}

	t.Cleanup(func() {
		clientConn.Close()
		<-errCh
	})
	return clientConn
}

func send(t *testing.T, conn net.Conn, msg protocol.Message) protocol.Message {
	t.Helper()
	if err := protocol.WriteFrame(conn, protocol.EncodeMessage(msg)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	payload, err := protocol.ReadFrame(conn)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	got, err := protocol.DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	return got
}

func TestScenarioCreateDatabaseThenTableThenInsertThenSelect(t *testing.T) {
	conn := harness(t)

	reply := send(t, conn, protocol.StrMessage("CREATE DATABASE shop;"))
	if reply.Type != protocol.Str {
		t.Fatalf("got %+v, want Str", reply)
	}

	reply = send(t, conn, protocol.StrMessage("CREATE TABLE widgets (id INT, label TEXT);"))
	if reply.Type != protocol.Str {
		t.Fatalf("got %+v, want Str", reply)
	}

	reply = send(t, conn, protocol.StrMessage("INSERT INTO widgets VALUES (1, 'a'), (2, 'b');"))
	if reply.Type != protocol.Ok {
		t.Fatalf("got %+v, want Ok", reply)
	}

	reply = send(t, conn, protocol.StrMessage("SELECT * FROM widgets WHERE id = 2;"))
	if reply.Type != protocol.RowSet {
		t.Fatalf("got %+v, want RowSet", reply)
	}
	if len(reply.RowSet.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(reply.RowSet.Rows))
	}
}

func TestScenarioConnectToMissingDatabaseStartsEmpty(t *testing.T) {
	conn := harness(t)

	reply := send(t, conn, protocol.CommandMessage(protocol.Command{Kind: protocol.Connect, Arg: "fresh"}))
	if reply.Type != protocol.Ok {
		t.Fatalf("got %+v, want Ok", reply)
	}

	reply = send(t, conn, protocol.CommandMessage(protocol.Command{Kind: protocol.ListTables}))
	if reply.Type != protocol.Str {
		t.Fatalf("got %+v, want Str", reply)
	}
}

func TestScenarioDropTableThenSelectReportsError(t *testing.T) {
	conn := harness(t)

	send(t, conn, protocol.StrMessage("CREATE DATABASE shop;"))
	send(t, conn, protocol.StrMessage("CREATE TABLE widgets (id INT);"))
	send(t, conn, protocol.StrMessage("INSERT INTO widgets VALUES (1);"))
	reply := send(t, conn, protocol.StrMessage("DROP TABLE widgets;"))
	if reply.Type != protocol.Str {
		t.Fatalf("got %+v, want Str", reply)
	}

	reply = send(t, conn, protocol.StrMessage("SELECT * FROM widgets;"))
	if reply.Type != protocol.Str || reply.Text[:6] != "ERROR:" {
		t.Fatalf("got %+v, want an ERROR Str", reply)
	}
}

func TestScenarioCloseEndsSession(t *testing.T) {
	conn := harness(t)
	if err := protocol.WriteFrame(conn, protocol.EncodeMessage(protocol.CloseMessage())); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
}

func TestScenarioListDatabasesBeforeAnyCreateReportsNone(t *testing.T) {
	conn := harness(t)
	reply := send(t, conn, protocol.CommandMessage(protocol.Command{Kind: protocol.ListDatabases}))
	if reply.Type != protocol.Str || reply.Text != "(no databases)" {
		t.Fatalf("got %+v, want Str \"(no databases)\"", reply)
	}
}

func TestScenarioListDatabasesEnumeratesPresentEntries(t *testing.T) {
	conn := harness(t)
	send(t, conn, protocol.StrMessage("CREATE DATABASE shop;"))
	send(t, conn, protocol.StrMessage("CREATE DATABASE archive;"))

	reply := send(t, conn, protocol.CommandMessage(protocol.Command{Kind: protocol.ListDatabases}))
	if reply.Type != protocol.Str || reply.Text != "archive, shop" {
		t.Fatalf("got %+v, want Str \"archive, shop\"", reply)
	}
}

func TestScenarioSaveAndReconnectPersistsAcrossSessions(t *testing.T) {
	serverConn1, clientConn1 := net.Pipe()
	backend := persistence.NewMemBackend()

	done1 := make(chan error, 1)
	go func() {
		sess, err := Accept(serverConn1, backend, []byte{2}, quietLogger())
		if err != nil {
			done1 <- err
			return
		}
		done1 <- sess.Run()
	}()
	if _, err := protocol.NegotiateClient(clientConn1, []byte{2}); err != nil {
		t.Fatalf("NegotiateClient: %v", err)
	}

	send(t, clientConn1, protocol.StrMessage("CREATE DATABASE shop;"))
	send(t, clientConn1, protocol.StrMessage("CREATE TABLE widgets (id INT);"))
	send(t, clientConn1, protocol.StrMessage("INSERT INTO widgets VALUES (7);"))
	clientConn1.Close()
	<-done1

	serverConn2, clientConn2 := net.Pipe()
	done2 := make(chan error, 1)
	go func() {
		sess, err := Accept(serverConn2, backend, []byte{2}, quietLogger())
		if err != nil {
			done2 <- err
			return
		}
		done2 <- sess.Run()
	}()
	if _, err := protocol.NegotiateClient(clientConn2, []byte{2}); err != nil {
		t.Fatalf("NegotiateClient: %v", err)
	}

	reply := send(t, clientConn2, protocol.CommandMessage(protocol.Command{Kind: protocol.Connect, Arg: "shop"}))
	if reply.Type != protocol.Ok {
		t.Fatalf("got %+v, want Ok", reply)
	}
	reply = send(t, clientConn2, protocol.StrMessage("SELECT * FROM widgets;"))
	if reply.Type != protocol.RowSet || len(reply.RowSet.Rows) != 1 {
		t.Fatalf("got %+v, want a single persisted row", reply)
	}

	clientConn2.Close()
	<-done2
}
