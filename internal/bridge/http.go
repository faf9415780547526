// internal/bridge/http.go
package bridge

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"inkmark/internal/document"
	"inkmark/internal/logger"
)

// HTTPPort exposes the bridge to an out-of-process host over HTTP.
//
//	POST /bridge/messages   host -> editor message
//	GET  /bridge/outbox     drain editor -> host messages
//	POST /bridge/documents  upload a document blob, returns its ID
//	GET  /bridge/blobs/:id  download a blob (saved exports)
type HTTPPort struct {
	app   *fiber.App
	store *document.Store
	addr  string

	mu     sync.Mutex
	in     chan Message
	out    []Message
	closed bool
}

// NewHTTPPort builds the port around a blob store shared with the host.
func NewHTTPPort(addr string, store *document.Store) *HTTPPort {
	p := &HTTPPort{
		store: store,
		addr:  addr,
		in:    make(chan Message, inboundBuffer),
	}

	app := fiber.New(fiber.Config{
		AppName:               "inkmark bridge",
		DisableStartupMessage: true,
		ErrorHandler:          bridgeErrorHandler,
	})
	app.Use(recover.New())

	app.Post("/bridge/messages", p.handlePostMessage)
	app.Get("/bridge/outbox", p.handleOutbox)
	app.Post("/bridge/documents", p.handlePostDocument)
	app.Get("/bridge/blobs/:id", p.handleGetBlob)

	p.app = app
	return p
}

func bridgeErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	logger.Errorf("bridge: %v", err)
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// Listen starts serving. It blocks until Close is called.
func (p *HTTPPort) Listen() error {
	logger.Infof("bridge: listening on %s", p.addr)
	return p.app.Listen(p.addr)
}

// App exposes the router for tests.
func (p *HTTPPort) App() *fiber.App { return p.app }

// Send queues a message for the host to fetch from the outbox.
func (p *HTTPPort) Send(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errPortClosed
	}
	p.out = append(p.out, msg)
	return nil
}

// Inbound returns the host-to-editor message channel.
func (p *HTTPPort) Inbound() <-chan Message {
	return p.in
}

// Close stops the listener and closes the inbound channel.
func (p *HTTPPort) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.in)
	p.mu.Unlock()
	return p.app.Shutdown()
}

var (
	errPortClosed = errors.New("bridge port is closed")
	errQueueFull  = errors.New("inbound queue full")
)

// postInbound delivers a host message to the editor. The lock is held
// across the send so Close cannot close the channel mid-send.
func (p *HTTPPort) postInbound(msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errPortClosed
	}
	select {
	case p.in <- msg:
		return nil
	default:
		return errQueueFull
	}
}

func (p *HTTPPort) handlePostMessage(c *fiber.Ctx) error {
	var msg Message
	if err := c.BodyParser(&msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid message body",
		})
	}
	if msg.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message type is required",
		})
	}

	switch err := p.postInbound(msg); err {
	case nil:
		return c.SendStatus(fiber.StatusAccepted)
	case errPortClosed:
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "bridge is shut down",
		})
	default:
		logger.Warnf("bridge: inbound queue full, rejecting %s", msg.Type)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "editor busy, retry later",
		})
	}
}

func (p *HTTPPort) handleOutbox(c *fiber.Ctx) error {
	p.mu.Lock()
	msgs := p.out
	p.out = nil
	p.mu.Unlock()

	if msgs == nil {
		msgs = []Message{}
	}
	return c.JSON(msgs)
}

func (p *HTTPPort) handlePostDocument(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "empty document body",
		})
	}
	id, err := p.store.Put(append([]byte(nil), body...))
	if err != nil {
		return err
	}

	msg := NewMessage(TypeLoadDocument)
	msg.BlobID = id
	if err := p.postInbound(msg); err != nil {
		// Blob stays in the store, the host can retry with a message.
		logger.Warnf("bridge: document upload %s not announced: %v", id, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"blobId": id})
}

func (p *HTTPPort) handleGetBlob(c *fiber.Ctx) error {
	blob, err := p.store.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no such blob",
		})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(blob)
}
