package kafka

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

func TestProducerPublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var msg ReplicationMessage
		if err := json.Unmarshal(val, &msg); err != nil {
			return err
		}
		if msg.Entity != EntityProduct {
			return errors.New("unexpected entity " + msg.Entity)
		}
		return nil
	})

	producer := newProducer(mockProducer)
	err := producer.PublishEvent(TopicReplication, "p-1", ReplicationMessage{
		Entity:  EntityProduct,
		Payload: json.RawMessage(`{"name":"TEA"}`),
	})
	require.NoError(t, err)
	require.NoError(t, mockProducer.Close())
}

func TestProducerPublishEventError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := newProducer(mockProducer)
	require.ErrorIs(t, producer.PublishEvent(TopicReplication, "k", map[string]string{}), sarama.ErrOutOfBrokers)
	require.NoError(t, mockProducer.Close())
}

func TestProducerPublishEventMarshalError(t *testing.T) {
	producer := newProducer(mocks.NewSyncProducer(t, nil))
	require.Error(t, producer.PublishEvent(TopicReplication, "k", make(chan int)))
}

func TestProducerConfig(t *testing.T) {
	cfg := producerConfig()
	require.Equal(t, DefaultClientID, cfg.ClientID)
	require.True(t, cfg.Producer.Idempotent)
	require.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	require.Equal(t, 1, cfg.Net.MaxOpenRequests)
	require.Equal(t, 5, cfg.Producer.Retry.Max)

	cfg = producerConfig(WithClientID("replica-2"), WithSendRetries(0), WithClientID(""))
	require.Equal(t, "replica-2", cfg.ClientID)
	require.Zero(t, cfg.Producer.Retry.Max)
}

func TestEncodeMessageWithoutKey(t *testing.T) {
	msg, err := encodeMessage(TopicCatalogEvents, "", map[string]int{"a": 1}, nil)
	require.NoError(t, err)
	require.Nil(t, msg.Key)

	body, err := msg.Value.Encode()
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(body))
}

func TestNewProducerInvalidBroker(t *testing.T) {
	_, err := NewProducer([]string{"invalid-broker:9092"})
	require.Error(t, err)
}

func TestOutboxPublisherPublish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event CatalogEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventType != domain.EventProductUpserted || event.AggregateID != "p-1" {
			return errors.New("unexpected envelope")
		}
		if string(event.Payload) != `{"name":"TEA"}` {
			return errors.New("payload was not passed through")
		}
		return nil
	})

	publisher := NewOutboxPublisher(newProducer(mockProducer), "")
	require.Equal(t, TopicCatalogEvents, publisher.topic)

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: domain.AggregateProduct,
		AggregateID:   "p-1",
		EventType:     domain.EventProductUpserted,
		Payload:       []byte(`{"name":"TEA"}`),
	})
	require.NoError(t, err)
	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisherProducerError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewOutboxPublisher(newProducer(mockProducer), TopicCatalogEvents)
	require.Error(t, publisher.Publish(domain.OutboxMessage{ID: "outbox-2"}))
	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisherNilProducer(t *testing.T) {
	publisher := NewOutboxPublisher(nil, TopicCatalogEvents)
	require.ErrorIs(t, publisher.Publish(domain.OutboxMessage{ID: "outbox-3"}), errPublisherNotInitialized)
}
