package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublisher_PublishBookingConfirmed(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "court-booking", routingKey: "booking.confirmed"}

	msg := &BookingConfirmed{
		BookingID:  42,
		OwnerEmail: "owner@arena.vn",
		TotalPrice: 250000,
		Courts: []CourtRanges{
			{CourtID: 1, CourtName: "Court 1", Ranges: []string{"18:00 - 19:00"}},
		},
	}

	require.NoError(t, p.PublishBookingConfirmed(context.Background(), msg))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "booking.confirmed", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.NotEmpty(t, ch.published[0].MessageId)

	var got BookingConfirmed
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, int64(42), got.BookingID)
	assert.Equal(t, []string{"18:00 - 19:00"}, got.Courts[0].Ranges)
}

func TestPublisher_Errors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &Publisher{ch: ch, exchange: "court-booking", routingKey: "booking.confirmed"}

	err := p.PublishBookingConfirmed(context.Background(), &BookingConfirmed{BookingID: 1})
	assert.ErrorIs(t, err, ErrPublish)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)

	err = p.PublishBookingConfirmed(context.Background(), &BookingConfirmed{BookingID: 1})
	assert.ErrorIs(t, err, ErrClosed)
}
