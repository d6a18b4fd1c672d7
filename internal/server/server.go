// Package server accepts connections and supervises one goroutine per
// connection, handing each off to the session package after negotiation.
package server

import (
	"context"
	"net"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chahine-tech/reldb/internal/database"
	"github.com/chahine-tech/reldb/internal/session"
)

// Server owns the shared persistence backend and the serializer
// versions it advertises during negotiation; all per-connection state
// lives in the session it spawns.
type Server struct {
	Backend           database.Backend
	SupportedVersions []byte
	Log               *logrus.Logger
}

// New returns a Server ready to Serve.
func New(backend database.Backend, supportedVersions []byte, log *logrus.Logger) *Server {
	return &Server{Backend: backend, SupportedVersions: supportedVersions, Log: log}
}

// Serve accepts connections from ln until ctx is cancelled or Accept
// returns a fatal error, spawning one goroutine per connection via
// errgroup so the first fatal per-connection error doesn't leak the
// others' goroutines.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return group.Wait()
			default:
				return err
			}
		}

		group.Go(func() error {
			sess, err := session.Accept(conn, s.Backend, s.SupportedVersions, s.Log)
			if err != nil {
				conn.Close()
				s.Log.WithError(err).Warn("connection rejected during negotiation")
				return nil
			}
			if err := sess.Run(); err != nil {
				s.Log.WithError(err).Warn("session ended with error")
			}
			return nil
		})
	}
}
