package ledstrip

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/karlmutch/errors"

	"github.com/Axil12/ws2812b-christmas-strip/model"
)

// TestFadeCandyFrames runs the whole pipeline against a fake OPC server and
// waits for a frame showing the selection
func TestFadeCandyFrames(t *testing.T) {
	ln, errGo := net.Listen("tcp", "127.0.0.1:0")
	if errGo != nil {
		t.Fatal(errGo)
	}
	defer ln.Close()

	connC := make(chan net.Conn, 1)
	go func() {
		conn, errGo := ln.Accept()
		if errGo != nil {
			return
		}
		connC <- conn
	}()

	errorC := make(chan errors.Error, 10)
	quitC := make(chan struct{})
	defer close(quitC)

	gw := &Gateway{}
	selectC, _ := gw.Start(GatewayConfig{
		FadeCandy: FadeCandyConfig{
			Server:  ln.Addr().String(),
			Channel: 3,
			LEDs:    2,
			Refresh: 10 * time.Millisecond,
		},
	}, errorC, quitC)

	selectC <- &model.Selection{
		Program:    model.ProgramSpec{Kind: model.KindStatic, Colors: []model.ColorSpec{{Hex: "#ff8000"}}},
		Brightness: 1,
	}

	var conn net.Conn
	select {
	case conn = <-connC:
	case err := <-errorC:
		t.Fatal(err)
	case <-time.After(2 * time.Second):
		t.Fatal("no connection from the frame loop")
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	want := []byte{0xff, 0x80, 0x00, 0xff, 0x80, 0x00}
	for {
		header := make([]byte, 4)
		if _, errGo := io.ReadFull(conn, header); errGo != nil {
			t.Fatal(errGo)
		}
		if header[0] != 3 || header[1] != 0 {
			t.Fatalf("header = %v, want channel 3 set pixel colours", header)
		}
		length := int(header[2])<<8 | int(header[3])
		if length != 6 {
			t.Fatalf("length = %d, want 6", length)
		}
		data := make([]byte, length)
		if _, errGo := io.ReadFull(conn, data); errGo != nil {
			t.Fatal(errGo)
		}
		if bytes.Equal(data, want) {
			return
		}
	}
}
