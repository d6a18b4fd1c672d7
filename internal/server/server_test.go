package server

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chahine-tech/reldb/internal/persistence"
	"github.com/chahine-tech/reldb/internal/protocol"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestServeAcceptsAndNegotiatesAConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	backend := persistence.NewMemBackend()
	srv := New(backend, []byte{1, 2}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ln) }()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	version, err := protocol.NegotiateClient(conn, []byte{2})
	if err != nil {
		t.Fatalf("NegotiateClient: %v", err)
	}
	if version != 2 {
		t.Fatalf("got version %d, want 2", version)
	}

	if err := protocol.WriteFrame(conn, protocol.EncodeMessage(protocol.CloseMessage())); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not shut down after cancel")
	}
}
