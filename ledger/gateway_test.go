package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/messages"
	"github.com/wzwerch/sovrin/log"
)

type fakeClient struct {
	sent      [][]byte
	endpoints []string
	err       error
}

func (f *fakeClient) Send(data []byte, endpoint string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	f.endpoints = append(f.endpoints, endpoint)
	return nil
}

func signedOp(target string) messages.SignedOperation {
	return messages.SignedOperation{
		Operation:  messages.NymOperation{Target: target, Type: domain.TxnTypNym},
		Identifier: `submitter`,
		Signature:  `sig`,
	}
}

func TestServiceFlushesWithinLimit(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, `http://ledger.local/txn`, log.NewLogger(false))
	require.NoError(t, g.Start())

	g.Submit(signedOp(`a`))
	g.Submit(signedOp(`b`))
	g.Submit(signedOp(`c`))

	require.Equal(t, 2, g.Service(2))
	require.Len(t, client.sent, 2)
	require.Equal(t, `http://ledger.local/txn`, client.endpoints[0])

	require.Equal(t, 1, g.Service(5))
	require.Len(t, client.sent, 3)

	// nothing pending
	require.Equal(t, 0, g.Service(5))
}

func TestServiceDropsOnSendFailure(t *testing.T) {
	client := &fakeClient{err: errors.New(`connection refused`)}
	g := NewGateway(client, `http://ledger.local/txn`, log.NewLogger(false))
	require.NoError(t, g.Start())

	g.Submit(signedOp(`a`))
	require.Equal(t, 1, g.Service(5))

	// the failed operation is dropped, not retried
	client.err = nil
	require.Equal(t, 0, g.Service(5))
	require.Empty(t, client.sent)
}

func TestServiceWithoutEndpointDrops(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, ``, log.NewLogger(false))
	require.NoError(t, g.Start())

	g.Submit(signedOp(`a`))
	require.Equal(t, 1, g.Service(5))
	require.Empty(t, client.sent)
}

func TestStopClearsPending(t *testing.T) {
	client := &fakeClient{}
	g := NewGateway(client, `http://ledger.local/txn`, log.NewLogger(false))
	require.NoError(t, g.Start())

	g.Submit(signedOp(`a`))
	require.NoError(t, g.Stop())
	require.Equal(t, 0, g.Service(5))
}
