package relay

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
)

// MaxFrameSize bounds a single message frame. Chrome's native messaging
// limit for host-to-browser messages is 1 MB; we allow the same both ways.
const MaxFrameSize = 1 << 20

// ReadFrame reads one length-prefixed JSON frame: a 4-byte little-endian
// length followed by that many bytes of payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, errors.New("empty frame")
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes one length-prefixed JSON frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("frame too large: %d bytes", len(payload))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// Serve processes frames from rw until EOF or context cancellation. Each
// valid message is dispatched through Handle; unknown actions produce no
// response frame, per the message contract.
func (r *Relay) Serve(ctx context.Context, rw io.ReadWriter) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		payload, err := ReadFrame(rw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			r.log.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}

		resp, err := r.Handle(ctx, msg)
		if err != nil {
			return err
		}
		if resp == nil {
			continue
		}

		out, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		if err := WriteFrame(rw, out); err != nil {
			return err
		}
	}
}

// ServeListener accepts connections (typically on a unix socket shared with
// the popup) and serves each one until the context is cancelled.
func (r *Relay) ServeListener(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		go func() {
			defer conn.Close()
			if err := r.Serve(ctx, conn); err != nil && !errors.Is(err, context.Canceled) {
				r.log.Warn().Err(err).Msg("relay connection closed with error")
			}
		}()
	}
}
