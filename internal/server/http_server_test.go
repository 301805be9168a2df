package server_test

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/Tyrowin/gosplan/internal/server"
	"github.com/Tyrowin/gosplan/internal/testhelpers"
)

func TestListenRejectsBadAddress(t *testing.T) {
	httpServer := server.CreateServer("127.0.0.1:99999", nil)
	if ln, err := server.Listen(httpServer); err == nil {
		_ = ln.Close()
		t.Fatal("Expected bind error for unparsable address")
	}
}

func TestListenRejectsAddressInUse(t *testing.T) {
	first, err := server.Listen(server.CreateServer("127.0.0.1:0", nil))
	if err != nil {
		t.Fatalf("Failed to bind: %v", err)
	}
	defer first.Close()

	second, err := server.Listen(server.CreateServer(first.Addr().String(), nil))
	if err == nil {
		_ = second.Close()
		t.Fatal("Expected bind error for address in use")
	}
}

func TestGracefulShutdownWithClients(t *testing.T) {
	registry := server.NewRegistry()
	relay := server.NewRelay(registry, *server.NewConfig())
	httpServer := server.CreateServer("127.0.0.1:0", server.SetupRoutes(relay))

	ln, err := server.Listen(httpServer)
	if err != nil {
		t.Fatalf("Failed to bind: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer(httpServer, ln)
	}()

	wsURL := "ws://" + ln.Addr().String() + "/"
	clients := make([]net.Conn, 0)
	for i := 0; i < 3; i++ {
		conn := testhelpers.MustConnect(t, wsURL)
		testhelpers.MustReadText(t, conn, readTimeout)
		clients = append(clients, conn.NetConn())
	}
	testhelpers.WaitFor(t, readTimeout, func() bool { return registry.Len() == len(clients) })

	if err := server.ShutdownServer(httpServer, registry, 5*time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected clean exit from StartServer, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("StartServer did not return after shutdown")
	}

	testhelpers.WaitFor(t, readTimeout, func() bool { return registry.Len() == 0 })

	for i, c := range clients {
		_ = c.SetReadDeadline(time.Now().Add(readTimeout))
		buf := make([]byte, 1)
		if _, err := c.Read(buf); err == nil {
			t.Errorf("Client %d: expected connection to be closed", i)
		} else {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				t.Errorf("Client %d: connection still open after shutdown", i)
			}
		}
	}
}
