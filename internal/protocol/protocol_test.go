package protocol

import (
	"bytes"
	"io"
	"net"
	"testing"

	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteFrame(&buf, EncodeMessage(msg)); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	payload, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	return got
}

func TestCloseAndOkRoundTrip(t *testing.T) {
	if got := roundTrip(t, CloseMessage()); got.Type != Close {
		t.Fatalf("got %v, want Close", got.Type)
	}
	if got := roundTrip(t, OkMessage()); got.Type != Ok {
		t.Fatalf("got %v, want Ok", got.Type)
	}
}

func TestStrAndErrorRoundTrip(t *testing.T) {
	got := roundTrip(t, StrMessage("hello"))
	if got.Type != Str || got.Text != "hello" {
		t.Fatalf("got %+v", got)
	}
	got = roundTrip(t, ErrorMessage("boom"))
	if got.Type != Error || got.Text != "boom" {
		t.Fatalf("got %+v", got)
	}
}

func TestCommandConnectRoundTrip(t *testing.T) {
	got := roundTrip(t, CommandMessage(Command{Kind: Connect, Arg: "mydb"}))
	if got.Type != Command || got.Cmd.Kind != Connect || got.Cmd.Arg != "mydb" {
		t.Fatalf("got %+v", got)
	}
}

func TestCommandListDatabasesRoundTrip(t *testing.T) {
	got := roundTrip(t, CommandMessage(Command{Kind: ListDatabases}))
	if got.Type != Command || got.Cmd.Kind != ListDatabases {
		t.Fatalf("got %+v", got)
	}
}

func TestRowSetRoundTrip(t *testing.T) {
	rs := table.RowSet{
		Types: []types.ColumnType{types.Int},
		Names: []string{"a"},
		Rows:  []types.Row{{types.NewInt(42)}},
	}
	got := roundTrip(t, RowSetMessage(rs))
	if got.Type != RowSet || !got.RowSet.Equal(rs) {
		t.Fatalf("got %+v, want %+v", got.RowSet, rs)
	}
}

func TestMessageWithSerializerVersionRoundTrip(t *testing.T) {
	msg := StrMessage("versioned")
	msg.HasVersion = true
	msg.SerializerVersion = 2
	got := roundTrip(t, msg)
	if !got.HasVersion || got.SerializerVersion != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeMessageMissingTypeBitIsInvalidHeader(t *testing.T) {
	// flags word with no bits set at all.
	payload := make([]byte, 8)
	if _, err := DecodeMessage(payload); err == nil {
		t.Fatal("expected InvalidHeader error")
	}
}

func TestDecodeMessageUnknownTypeIsInvalidMessageType(t *testing.T) {
	w := &writer{}
	w.u64(flagMessageTypePresent)
	w.byte(99)
	if _, err := DecodeMessage(w.buf); err == nil {
		t.Fatal("expected InvalidMessageType error")
	}
}

func TestNegotiateHandshakePicksHighestCommon(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	chosenCh := make(chan byte, 1)
	errCh := make(chan error, 1)
	go func() {
		c, err := NegotiateClient(clientConn, []byte{1, 2, 3})
		chosenCh <- c
		errCh <- err
	}()

	chosen, err := NegotiateServer(serverConn, []byte{1, 2})
	if err != nil {
		t.Fatalf("NegotiateServer: %v", err)
	}
	if chosen != 2 {
		t.Fatalf("server got chosen=%d, want 2", chosen)
	}

	clientChosen := <-chosenCh
	if err := <-errCh; err != nil {
		t.Fatalf("NegotiateClient: %v", err)
	}
	if clientChosen != 2 {
		t.Fatalf("client got chosen=%d, want 2", clientChosen)
	}
}

func TestNegotiateServerRejectsUnsupportedChoice(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	go func() {
		// drain the advertisement, then reply with a version the server
		// never offered.
		var countBuf [1]byte
		io.ReadFull(clientConn, countBuf[:])
		advertised := make([]byte, countBuf[0])
		io.ReadFull(clientConn, advertised)
		clientConn.Write([]byte{9})
	}()

	if _, err := NegotiateServer(serverConn, []byte{1, 2}); err == nil {
		t.Fatal("expected IncompatibleVersion error")
	}
}
