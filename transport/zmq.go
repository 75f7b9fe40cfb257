package transport

import (
	"encoding/json"
	"fmt"
	"sync"

	zmq "github.com/pebbe/zmq4"
	"github.com/tryfix/log"
	"github.com/wzwerch/sovrin/domain/models"
)

const errTempUnavail = `resource temporarily unavailable`

// metadata travels in a separate frame to preserve backward and forward
// compatibility of the payload encoding. It tells the receiver who sent the
// message and where to reach back, since REQ/REP sockets expose no peer
// addressing of their own.
type metadata struct {
	Label    string `json:"label"`
	Endpoint string `json:"endpoint"`
}

// zmqClient wraps one lazily connected REQ socket. The mutex serializes the
// full send/ack exchange: zmq sockets are not safe for concurrent use, and a
// handler reply on the polling path can coincide with a user-initiated send.
type zmqClient struct {
	mu  sync.Mutex
	skt *zmq.Socket
}

// Zmq is the default endpoint: a REP socket served by bounded non-blocking
// polling, and one lazily connected REQ socket per destination.
type Zmq struct {
	ctx      *zmq.Context
	server   *zmq.Socket
	clients  *sync.Map // key: destination endpoint, val: *zmqClient
	self     metadata
	handler  func(data []byte, sender models.Sender)
	compactr *compactor
	*registry
	log log.Logger
}

func NewZmq(label, endpoint string, logger log.Logger) (*Zmq, error) {
	ctx, err := zmq.NewContext()
	if err != nil {
		return nil, fmt.Errorf(`zmq context initialization failed - %v`, err)
	}

	repSkt, err := ctx.NewSocket(zmq.REP)
	if err != nil {
		return nil, fmt.Errorf(`constructing zmq server socket failed - %v`, err)
	}

	if err = repSkt.Bind(endpoint); err != nil {
		return nil, fmt.Errorf(`binding zmq socket to %s failed - %v`, endpoint, err)
	}

	compactr, err := newCompactor()
	if err != nil {
		return nil, fmt.Errorf(`initializing payload compactor failed - %v`, err)
	}

	return &Zmq{
		ctx:      ctx,
		server:   repSkt,
		clients:  &sync.Map{},
		self:     metadata{Label: label, Endpoint: endpoint},
		compactr: compactr,
		registry: newRegistry(),
		log:      logger,
	}, nil
}

func (z *Zmq) Start() error {
	return nil
}

func (z *Zmq) SetHandler(h func(data []byte, sender models.Sender)) {
	z.handler = h
}

// Service drains at most limit inbound messages without blocking. Each
// message auto-registers the sender and is handed to the inbound handler
// before the next receive, so one message is fully processed before the
// next begins.
func (z *Zmq) Service(limit int) (count int) {
	for i := 0; i < limit; i++ {
		frames, err := z.server.RecvMessageBytes(zmq.DONTWAIT)
		if err != nil {
			if err.Error() != errTempUnavail {
				z.log.Error(fmt.Sprintf(`receiving zmq message by receiver failed - %v`, err))
			}
			return count
		}

		if len(frames) != 2 {
			z.log.Error(`received an empty/invalid message`)
			z.ack(false)
			continue
		}

		var meta metadata
		if err = json.Unmarshal(frames[0], &meta); err != nil {
			z.log.Error(fmt.Sprintf(`unmarshalling metadata frame failed - %v`, err))
			z.ack(false)
			continue
		}

		data, err := z.compactr.restore(frames[1])
		if err != nil {
			z.log.Error(err)
			z.ack(false)
			continue
		}

		z.Register(meta.Label, meta.Endpoint)
		if z.handler != nil {
			z.handler(data, models.Sender{Name: meta.Label, Endpoint: meta.Endpoint})
		}
		z.ack(true)
		count++
	}
	return count
}

func (z *Zmq) ack(success bool) {
	msg := `ok`
	if !success {
		msg = `failed`
	}

	if _, err := z.server.Send(msg, zmq.DONTWAIT); err != nil {
		z.log.Error(fmt.Sprintf(`sending zmq ack by receiver failed - %v`, err))
	}
}

func (z *Zmq) Send(data []byte, endpoint string) error {
	val, _ := z.clients.LoadOrStore(endpoint, &zmqClient{})
	cl := val.(*zmqClient)
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.skt == nil {
		skt, err := z.ctx.NewSocket(zmq.REQ)
		if err != nil {
			return fmt.Errorf(`constructing zmq client socket failed - %v`, err)
		}

		if err = skt.Connect(endpoint); err != nil {
			return fmt.Errorf(`connecting to zmq socket (%s) failed - %v`, endpoint, err)
		}
		cl.skt = skt
	}

	metaByts, err := json.Marshal(z.self)
	if err != nil {
		return fmt.Errorf(`marshalling metadata failed - %v`, err)
	}

	if _, err = cl.skt.SendMessage(metaByts, z.compactr.compact(data)); err != nil {
		return fmt.Errorf(`sending zmq message by sender failed - %v`, err)
	}

receive:
	if _, err = cl.skt.RecvMessage(zmq.DONTWAIT); err != nil {
		if err.Error() == errTempUnavail {
			goto receive
		}
		return fmt.Errorf(`receiving zmq ack by sender failed - %v`, err)
	}

	return nil
}

func (z *Zmq) Stop() error {
	var err error
	z.clients.Range(func(_, val any) bool {
		cl := val.(*zmqClient)
		cl.mu.Lock()
		if cl.skt != nil {
			if cErr := cl.skt.Close(); cErr != nil {
				err = fmt.Errorf(`closing zmq client socket failed - %v`, cErr)
				cl.mu.Unlock()
				return false
			}
			cl.skt = nil
		}
		cl.mu.Unlock()
		return true
	})
	if err != nil {
		return err
	}

	if err = z.server.Close(); err != nil {
		return fmt.Errorf(`closing zmq server socket failed - %v`, err)
	}
	return nil
}
