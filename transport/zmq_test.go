package transport

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wzwerch/sovrin/domain/models"
	"github.com/wzwerch/sovrin/log"
)

// Replies travel on the polling goroutine while invitation and claim
// operations send from the caller's goroutine, so the client side must
// tolerate concurrent sends to the same destination.
func TestZmqConcurrentSends(t *testing.T) {
	logger := log.NewLogger(false)
	serverEndpoint := `tcp://127.0.0.1:29871`

	server, err := NewZmq(`server`, serverEndpoint, logger)
	require.NoError(t, err)
	client, err := NewZmq(`client`, `tcp://127.0.0.1:29872`, logger)
	require.NoError(t, err)

	const senders, perSender = 8, 3
	received := make(chan []byte, senders*perSender)
	server.SetHandler(func(data []byte, sender models.Sender) {
		received <- data
	})
	require.NoError(t, server.Start())
	require.NoError(t, client.Start())

	stop := make(chan struct{})
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		for {
			server.Service(8)
			select {
			case <-stop:
				return
			default:
				time.Sleep(time.Millisecond)
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				if err := client.Send([]byte(fmt.Sprintf(`msg-%d-%d`, n, j)), serverEndpoint); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal(`timed out waiting for concurrent sends to complete`)
	}

	for i := 0; i < senders*perSender; i++ {
		select {
		case <-received:
		case <-time.After(5 * time.Second):
			t.Fatalf(`timed out after %d of %d deliveries`, i, senders*perSender)
		}
	}

	close(stop)
	<-pollDone
	require.NoError(t, client.Stop())
	require.NoError(t, server.Stop())
}
