package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/tryfix/log"
	"github.com/wzwerch/sovrin/domain/models"
)

const (
	agentPath     = `/agent`
	hdrLabel      = `X-Agent-Label`
	hdrEndpoint   = `X-Agent-Endpoint`
	inboundBufCap = 256
)

type inboundMsg struct {
	data   []byte
	sender models.Sender
}

// HTTP is the alternative endpoint. The server accepts messages
// asynchronously into a bounded queue; Service drains them on the agent's
// polling path so handler execution stays single-threaded.
type HTTP struct {
	port    int
	self    metadata
	router  *mux.Router
	server  *http.Server
	client  *http.Client
	handler func(data []byte, sender models.Sender)
	queue   chan inboundMsg
	once    sync.Once
	*registry
	log log.Logger
}

func NewHTTP(label string, port int, logger log.Logger) *HTTP {
	h := &HTTP{
		port:     port,
		self:     metadata{Label: label, Endpoint: fmt.Sprintf(`http://127.0.0.1:%d%s`, port, agentPath)},
		router:   mux.NewRouter(),
		client:   &http.Client{},
		queue:    make(chan inboundMsg, inboundBufCap),
		registry: newRegistry(),
		log:      logger,
	}

	h.router.HandleFunc(agentPath, h.handleInbound).Methods(http.MethodPost)
	h.server = &http.Server{Addr: `:` + strconv.Itoa(port), Handler: h.router}
	return h
}

func (h *HTTP) Start() error {
	h.once.Do(func() {
		go func() {
			if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				h.log.Fatal(fmt.Sprintf(`http server initialization failed - %v`, err))
			}
		}()
	})

	h.log.Info(fmt.Sprintf(`http endpoint started listening on %d`, h.port))
	return nil
}

func (h *HTTP) SetHandler(handler func(data []byte, sender models.Sender)) {
	h.handler = handler
}

func (h *HTTP) Service(limit int) (count int) {
	for i := 0; i < limit; i++ {
		select {
		case in := <-h.queue:
			h.Register(in.sender.Name, in.sender.Endpoint)
			if h.handler != nil {
				h.handler(in.data, in.sender)
			}
			count++
		default:
			return count
		}
	}
	return count
}

func (h *HTTP) Send(data []byte, endpoint string) error {
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf(`constructing http request failed - %v`, err)
	}
	req.Header.Set(hdrLabel, h.self.Label)
	req.Header.Set(hdrEndpoint, h.self.Endpoint)

	res, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf(`sending http message failed - %v`, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusAccepted && res.StatusCode != http.StatusOK {
		return fmt.Errorf(`invalid status code: %d`, res.StatusCode)
	}
	return nil
}

func (h *HTTP) handleInbound(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error(fmt.Sprintf(`reading inbound message failed - %v`, err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sender := models.Sender{Name: r.Header.Get(hdrLabel), Endpoint: r.Header.Get(hdrEndpoint)}
	select {
	case h.queue <- inboundMsg{data: data, sender: sender}:
		w.WriteHeader(http.StatusAccepted)
	default:
		// inbound queue saturated; drop and let the peer retry
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

func (h *HTTP) Stop() error {
	if err := h.server.Shutdown(context.Background()); err != nil {
		return fmt.Errorf(`http server shutdown failed - %v`, err)
	}
	return nil
}
