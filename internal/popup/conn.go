package popup

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/relay"
)

// RelayConn is the popup's connection to the agent's relay socket. The
// relay never responds to unknown actions, so every request carries a
// deadline and a missing response surfaces as a timeout error.
type RelayConn struct {
	conn    net.Conn
	timeout time.Duration
}

// Dial connects to the relay's unix socket.
func Dial(socketPath string, timeout time.Duration) (*RelayConn, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to reach agent at %s: %w", socketPath, err)
	}
	return &RelayConn{conn: conn, timeout: timeout}, nil
}

// Send writes one message frame and reads one response frame into out.
func (rc *RelayConn) Send(msg relay.Message, out interface{}) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if err := rc.conn.SetDeadline(time.Now().Add(rc.timeout)); err != nil {
		return err
	}
	if err := relay.WriteFrame(rc.conn, payload); err != nil {
		return err
	}

	resp, err := relay.ReadFrame(rc.conn)
	if err != nil {
		return fmt.Errorf("no response from agent: %w", err)
	}
	return json.Unmarshal(resp, out)
}

// Close closes the socket.
func (rc *RelayConn) Close() error {
	return rc.conn.Close()
}

// decodeSourceInfo re-decodes the relay's generic data payload into the
// typed source-info response.
func decodeSourceInfo(data interface{}) (*model.SourceInfoResponse, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var info model.SourceInfoResponse
	if err := json.Unmarshal(b, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
