package broker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	messages, err := b.Subscribe(ctx, "feedback.results", "")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "feedback.results", "", []byte(`{"run_id":"abc"}`)))

	select {
	case msg := <-messages:
		assert.Equal(t, "feedback.results", msg.Topic)
		assert.Equal(t, "", msg.RoutingKey)
		assert.JSONEq(t, `{"run_id":"abc"}`, string(msg.Payload))
		assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
	case <-time.After(time.Second):
		t.Fatal("expected a message")
	}
}

func TestRoutingKeysIsolateChannels(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	a, err := b.Subscribe(ctx, "events", "a")
	require.NoError(t, err)
	other, err := b.Subscribe(ctx, "events", "b")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "events", "a", []byte("for a")))

	select {
	case msg := <-a:
		assert.Equal(t, "for a", string(msg.Payload))
	case <-time.After(time.Second):
		t.Fatal("expected a message on routing key a")
	}

	select {
	case <-other:
		t.Fatal("message leaked to the wrong routing key")
	default:
	}
}

func TestPublishFullChannel(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	for i := 0; i < topicBuffer; i++ {
		require.NoError(t, b.Publish(ctx, "t", "", []byte(fmt.Sprintf("%d", i))))
	}

	err := b.Publish(ctx, "t", "", []byte("overflow"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel is full")
}

func TestClosedBrokerRejectsOperations(t *testing.T) {
	b := NewChannelBroker()
	require.NoError(t, b.Close())

	err := b.Publish(context.Background(), "t", "", []byte("x"))
	assert.Error(t, err)

	_, err = b.Subscribe(context.Background(), "t", "")
	assert.Error(t, err)

	// Close is idempotent.
	assert.NoError(t, b.Close())
}

func TestCloseDrainsSubscribers(t *testing.T) {
	b := NewChannelBroker()
	ctx := context.Background()

	messages, err := b.Subscribe(ctx, "t", "")
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, "t", "", []byte("last")))
	require.NoError(t, b.Close())

	msg, ok := <-messages
	require.True(t, ok)
	assert.Equal(t, "last", string(msg.Payload))

	_, ok = <-messages
	assert.False(t, ok, "channel should be closed after Close")
}
