package knowledge

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gbossert/pylstar/pkg/letter"
)

// NetworkTarget submits a word to a system under learning over TCP, one
// letter per round trip, grounded on pylstar's NetworkActiveKnowledgeBase.
// Unlike the original, which opens a fresh socket per submitted word, the
// connection here is opened in Start and closed in Stop so a single
// membership query's Start/Submit/Stop cycle maps onto exactly one TCP
// session, as the teacher lifecycle contract requires.
//
// Wire format: each letter is sent and received as a 4-byte big-endian
// length prefix followed by that many bytes of UTF-8 payload. This framing
// is this adapter's own choice, not dictated by the learning algorithm.
type NetworkTarget struct {
	Addr    string
	Timeout time.Duration

	conn net.Conn
}

// NewNetworkTarget returns a target that dials addr for each query.
func NewNetworkTarget(addr string, timeout time.Duration) *NetworkTarget {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NetworkTarget{Addr: addr, Timeout: timeout}
}

func (t *NetworkTarget) Start(ctx context.Context) error {
	d := net.Dialer{Timeout: t.Timeout}
	conn, err := d.DialContext(ctx, "tcp", t.Addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.Addr, err)
	}
	t.conn = conn
	return nil
}

func (t *NetworkTarget) Stop(ctx context.Context) error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *NetworkTarget) Submit(ctx context.Context, input letter.Word) (letter.Word, error) {
	if t.conn == nil {
		return letter.Empty, fmt.Errorf("network target: Submit called before Start")
	}
	outLetters := make([]letter.Letter, 0, input.Len())
	for _, in := range input.Letters() {
		out, err := t.submitLetter(in)
		if err != nil {
			return letter.Empty, err
		}
		outLetters = append(outLetters, out)
	}
	return letter.NewWord(outLetters...), nil
}

func (t *NetworkTarget) submitLetter(in letter.Letter) (letter.Letter, error) {
	if deadline, ok := ctxDeadline(t.Timeout); ok {
		_ = t.conn.SetDeadline(deadline)
	}
	if err := writeFrame(t.conn, []byte(in.String())); err != nil {
		return letter.Epsilon, fmt.Errorf("send %q: %w", in, err)
	}
	payload, err := readFrame(t.conn)
	if err != nil {
		return letter.Epsilon, fmt.Errorf("receive response to %q: %w", in, err)
	}
	return letter.New(string(payload)), nil
}

func ctxDeadline(timeout time.Duration) (time.Time, bool) {
	if timeout <= 0 {
		return time.Time{}, false
	}
	return time.Now().Add(timeout), true
}

func writeFrame(w io.Writer, payload []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(header[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
