package knowledge

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gbossert/pylstar/pkg/letter"
)

// echoServer accepts one connection and echoes every framed letter back
// with "!" appended, just enough to exercise NetworkTarget's wire format.
func echoServer(t *testing.T, ln net.Listener) {
	t.Helper()
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		payload, err := readFrame(conn)
		if err != nil {
			return
		}
		if err := writeFrame(conn, []byte(string(payload)+"!")); err != nil {
			return
		}
	}
}

func TestNetworkTargetSubmit(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go echoServer(t, ln)

	target := NewNetworkTarget(ln.Addr().String(), time.Second)
	ctx := context.Background()
	if err := target.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer target.Stop(ctx)

	out, err := target.Submit(ctx, letter.NewWord(letter.New("a"), letter.New("b")))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	want := letter.NewWord(letter.New("a!"), letter.New("b!"))
	if !out.Equal(want) {
		t.Fatalf("output = %v, want %v", out, want)
	}
}
