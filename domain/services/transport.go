package services

import "github.com/wzwerch/sovrin/domain/models"

/* client-server interfaces */

type Transporter interface {
	Client
	Endpoint
}

type Client interface {
	// Send transmits the message to a network endpoint. Marshalling is
	// independent of the transport layer to support multiple encodings.
	Send(data []byte, endpoint string) error
}

type Endpoint interface {
	// Start should fail for underlying transport failures
	Start() error
	// SetHandler registers the inbound callback invoked synchronously for
	// each message drained by Service
	SetHandler(h func(data []byte, sender models.Sender))
	// Service performs at most limit non-blocking receives and returns the
	// number of messages handled
	Service(limit int) int
	// Register maps a peer name to its network endpoint
	Register(name, endpoint string)
	// Resolve returns the endpoint of a known peer or
	// domain.ErrRemoteNotFound
	Resolve(name string) (endpoint string, err error)
	Stop() error
}
