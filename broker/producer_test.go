package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNatsProducer_PublishWithoutConnection(t *testing.T) {
	var producer *NatsProducer
	assert.ErrorIs(t, producer.Publish("taskmanager.task.created", []byte("{}")), ErrProducerUnavailable)

	producer = &NatsProducer{}
	assert.ErrorIs(t, producer.Publish("taskmanager.task.created", []byte("{}")), ErrProducerUnavailable)
	assert.NotPanics(t, producer.Close)
	assert.Nil(t, producer.Conn())
}

func TestInitProducer_Unreachable(t *testing.T) {
	_, err := InitProducer("nats://127.0.0.1:1")
	assert.Error(t, err)
}

func TestLocalProducer_DeliversToHandler(t *testing.T) {
	var received []Message
	producer := NewLocalProducer(func(msg Message) {
		received = append(received, msg)
	})

	err := producer.Publish(SubjectFor("task.created"), []byte(`{"event":"task.created"}`))
	assert.NoError(t, err)

	if assert.Len(t, received, 1) {
		assert.Equal(t, "taskmanager.task.created", received[0].Subject)
		assert.JSONEq(t, `{"event":"task.created"}`, string(received[0].Data))
	}
}

func TestLocalProducer_NoHandler(t *testing.T) {
	producer := NewLocalProducer(nil)
	assert.ErrorIs(t, producer.Publish("x", nil), ErrProducerUnavailable)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "taskmanager.user.deleted", SubjectFor(string(UserDeleted)))
	assert.Equal(t, "taskmanager.task.updated", SubjectFor("Task.Updated"))
}
