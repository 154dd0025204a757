package broker

import (
	"errors"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

var ErrProducerUnavailable = errors.New("message producer is not connected")

// Producer publishes encoded events on a subject.
type Producer interface {
	Publish(subject string, data []byte) error
	Close()
}

type NatsProducer struct {
	conn *nats.Conn
}

func InitProducer(url string) (*NatsProducer, error) {
	conn, err := nats.Connect(url,
		nats.Name("taskmanager"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("NATS reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("NATS producer connected to %s", conn.ConnectedUrl())
	return &NatsProducer{conn: conn}, nil
}

// Conn exposes the connection so consumers can share it.
func (p *NatsProducer) Conn() *nats.Conn {
	if p == nil {
		return nil
	}
	return p.conn
}

func (p *NatsProducer) Publish(subject string, data []byte) error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return ErrProducerUnavailable
	}
	return p.conn.Publish(subject, data)
}

func (p *NatsProducer) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Printf("Failed to drain NATS connection: %v", err)
		p.conn.Close()
	}
}

// LocalProducer hands events straight to an in-process handler. It stands in
// for NATS when no server is configured.
type LocalProducer struct {
	handler func(Message)
}

func NewLocalProducer(handler func(Message)) *LocalProducer {
	return &LocalProducer{handler: handler}
}

func (p *LocalProducer) Publish(subject string, data []byte) error {
	if p.handler == nil {
		return ErrProducerUnavailable
	}
	p.handler(Message{Subject: subject, Data: data})
	return nil
}

func (p *LocalProducer) Close() {}
