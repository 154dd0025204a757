package broker

import (
	"errors"
	"log"

	"github.com/nats-io/nats.go"
)

// Message is a received event.
type Message struct {
	Subject string
	Data    []byte
}

type Consumer struct {
	subs []*nats.Subscription
}

// StartConsumer subscribes handler to every subject on conn. Handlers run on
// the NATS client's delivery goroutine.
func StartConsumer(conn *nats.Conn, subjects []string, handler func(Message)) (*Consumer, error) {
	if conn == nil || conn.IsClosed() {
		return nil, nats.ErrConnectionClosed
	}
	if len(subjects) == 0 {
		return nil, errors.New("no subjects to subscribe to")
	}

	consumer := &Consumer{}
	for _, subject := range subjects {
		sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
			handler(Message{Subject: msg.Subject, Data: msg.Data})
		})
		if err != nil {
			consumer.Close()
			return nil, err
		}
		consumer.subs = append(consumer.subs, sub)
	}

	log.Printf("NATS consumer started, listening to subjects: %v", subjects)
	return consumer, nil
}

func (c *Consumer) Close() {
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			log.Printf("Failed to unsubscribe from %s: %v", sub.Subject, err)
		}
	}
	c.subs = nil
}
