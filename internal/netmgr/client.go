package netmgr

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"mtd-cli/internal/tdlist"
)

// Client drives one synchronous sync exchange against a server. The zero
// Timeout disables I/O deadlines.
type Client struct {
	Addr     string
	Password []byte
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Sync connects to the server, authenticates both ends, exchanges replicas
// and merges them. On success list holds the merged client-side result; on
// any failure list is left untouched, so a half-finished exchange is never
// observable.
func (c *Client) Sync(ctx context.Context, list *tdlist.TdList) error {
	dialer := net.Dialer{Timeout: c.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	return c.run(conn, list)
}

// run performs the client side of one exchange on an established connection.
func (c *Client) run(conn net.Conn, list *tdlist.TdList) error {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Merge on a working copy; the caller's replica is replaced only after
	// the server has confirmed the write.
	snapshot, err := list.ToJSON()
	if err != nil {
		return err
	}
	work, err := tdlist.FromJSON(snapshot)
	if err != nil {
		return err
	}

	var challenge [challengeSize]byte
	if _, err := rand.Read(challenge[:]); err != nil {
		return err
	}
	if err := c.send(conn, challenge[:]); err != nil {
		return err
	}

	resp, err := c.recv(conn)
	if err != nil {
		return err
	}
	if len(resp) < sessionIDSize+challengeSize {
		return fmt.Errorf("%w: short challenge response", ErrAuth)
	}
	session := resp[:sessionIDSize]
	if !bytes.Equal(resp[sessionIDSize:], challenge[:]) {
		return fmt.Errorf("%w: challenge mismatch", ErrAuth)
	}
	logger.Debug("server authenticated", zap.String("addr", c.Addr))

	if err := c.send(conn, append(append([]byte(nil), session...), "read"...)); err != nil {
		return err
	}
	resp, err = c.recv(conn)
	if err != nil {
		return err
	}
	body, err := checkSession(session, resp)
	if err != nil {
		return err
	}
	serverList, err := tdlist.FromJSON(body)
	if err != nil {
		return err
	}
	// A merge between two client-role replicas panics; a peer must not be
	// able to trigger that with wire data.
	if !serverList.IsServer() {
		return fmt.Errorf("%w: peer sent a client-role replica", ErrAuth)
	}

	work.Sync(serverList)

	merged, err := serverList.ToJSON()
	if err != nil {
		return err
	}
	if err := c.send(conn, append(append([]byte(nil), session...), merged...)); err != nil {
		return err
	}

	resp, err = c.recv(conn)
	if err != nil {
		return err
	}
	body, err = checkSession(session, resp)
	if err != nil {
		return err
	}
	if !bytes.Equal(body, []byte("ok")) {
		return ErrServerWrite
	}

	*list = *work
	logger.Info("sync complete",
		zap.String("addr", c.Addr),
		zap.Int("todos", len(list.Todos())),
		zap.Int("tasks", len(list.Tasks())))
	return nil
}

func (c *Client) send(conn net.Conn, payload []byte) error {
	if c.Timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(c.Timeout)); err != nil {
			return err
		}
	}
	return writeFrame(conn, payload, c.Password)
}

func (c *Client) recv(conn net.Conn) ([]byte, error) {
	if c.Timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(c.Timeout)); err != nil {
			return nil, err
		}
	}
	return readFrame(conn, c.Password)
}

// checkSession strips and verifies the session-id prefix of a message.
func checkSession(session, msg []byte) ([]byte, error) {
	if len(msg) < sessionIDSize || !bytes.Equal(msg[:sessionIDSize], session) {
		return nil, fmt.Errorf("%w: session id mismatch", ErrAuth)
	}
	return msg[sessionIDSize:], nil
}
