package netmgr

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"mtd-cli/internal/tdlist"
)

// Exchange records the outcome of one handled connection, for the sync
// history log.
type Exchange struct {
	When   time.Time
	Remote string
	Err    error
	Todos  int
	Tasks  int
}

// Server serves the sync protocol for a single server-role replica.
// Connections are handled strictly one at a time, start to finish, so the
// replica and the save hook never see concurrent access.
type Server struct {
	Addr     string
	Password []byte
	Timeout  time.Duration
	Logger   *zap.Logger

	// List is the server-role replica exchanged with clients.
	List *tdlist.TdList

	// Save, when set, persists the replica after each successful exchange.
	// A save failure aborts the exchange before the client is acknowledged.
	Save func(*tdlist.TdList) error

	// Record, when set, is called with the outcome of every handled
	// connection, failed ones included.
	Record func(Exchange)
}

// ListenAndServe listens on s.Addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve runs the sequential accept loop on ln. Per-connection failures are
// logged and recorded but never stop the loop; Serve returns only when ctx is
// canceled or the listener breaks.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.logger()
	logger.Info("sync server listening", zap.String("addr", ln.Addr().String()))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	logger := s.logger()
	remote := conn.RemoteAddr().String()

	err := s.exchange(conn)
	if err != nil {
		logger.Warn("sync exchange failed",
			zap.String("remote", remote),
			zap.Error(err))
	} else {
		logger.Info("sync exchange complete",
			zap.String("remote", remote),
			zap.Int("todos", len(s.List.Todos())),
			zap.Int("tasks", len(s.List.Tasks())))
	}

	if s.Record != nil {
		s.Record(Exchange{
			When:   time.Now(),
			Remote: remote,
			Err:    err,
			Todos:  len(s.List.Todos()),
			Tasks:  len(s.List.Tasks()),
		})
	}
}

// exchange runs the server side of one sync: echo the client's challenge
// under a fresh session id, hand out the local replica, and store the merged
// replica the client sends back.
func (s *Server) exchange(conn net.Conn) error {
	challenge, err := s.recv(conn)
	if err != nil {
		return err
	}

	var session [sessionIDSize]byte
	if _, err := rand.Read(session[:]); err != nil {
		return err
	}
	if err := s.send(conn, append(append([]byte(nil), session[:]...), challenge...)); err != nil {
		return err
	}

	msg, err := s.recv(conn)
	if err != nil {
		return err
	}
	want := append(append([]byte(nil), session[:]...), "read"...)
	if !bytes.Equal(msg, want) {
		return fmt.Errorf("%w: expected read command", ErrAuth)
	}

	local, err := s.List.ToJSON()
	if err != nil {
		return err
	}
	if err := s.send(conn, append(append([]byte(nil), session[:]...), local...)); err != nil {
		return err
	}

	msg, err = s.recv(conn)
	if err != nil {
		return err
	}
	body, err := checkSession(session[:], msg)
	if err != nil {
		return err
	}
	merged, err := tdlist.FromJSON(body)
	if err != nil {
		return err
	}
	if !merged.IsServer() {
		return errors.New("client sent a client-role replica")
	}

	*s.List = *merged
	if s.Save != nil {
		if err := s.Save(s.List); err != nil {
			// No "ok" goes out: the client must not treat this sync as
			// stored.
			return err
		}
	}

	return s.send(conn, append(append([]byte(nil), session[:]...), "ok"...))
}

func (s *Server) send(conn net.Conn, payload []byte) error {
	if s.Timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.Timeout)); err != nil {
			return err
		}
	}
	return writeFrame(conn, payload, s.Password)
}

func (s *Server) recv(conn net.Conn) ([]byte, error) {
	if s.Timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.Timeout)); err != nil {
			return nil, err
		}
	}
	return readFrame(conn, s.Password)
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
