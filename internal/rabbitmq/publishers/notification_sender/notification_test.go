package notificationsender

import (
	"context"
	"errors"
	c "streemi/internal/core/domain/common"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	"streemi/internal/rabbitmq/schema"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published   []amqp091.Publishing
	keys        []string
	returnError bool
}

func (p *fakePublisher) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp091.Publishing,
) error {
	if p.returnError {
		return errors.New("channel closed")
	}
	p.keys = append(p.keys, key)
	p.published = append(p.published, msg)
	return nil
}

var now = time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)

func TestNotificationIsPublished(t *testing.T) {
	publisher := &fakePublisher{}
	notifier := NewRabbitMQ(logging.NewFakeLogger(), publisher, "", "notifications", func() time.Time { return now })

	err := notifier.Send(
		context.Background(),
		c.NewEmail("a@x.com"),
		notification.PasswordReset,
		notification.Context{notification.ContextResetToken: "T1"},
	)

	require.NoError(t, err)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "notifications", publisher.keys[0])
	assert.Equal(t, amqp091.Persistent, publisher.published[0].DeliveryMode)

	msg := &schema.Notification{}
	require.NoError(t, msg.Unmarshal(publisher.published[0].Body))
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "password_reset", msg.Template)
	assert.Equal(t, "T1", msg.Context[notification.ContextResetToken])
	assert.True(t, now.Equal(msg.RequestedAt))
}

func TestPublishFailure(t *testing.T) {
	logger := logging.NewFakeLogger()
	notifier := NewRabbitMQ(logger, &fakePublisher{returnError: true}, "", "notifications", func() time.Time { return now })

	err := notifier.Send(context.Background(), c.NewEmail("a@x.com"), notification.PasswordReset, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, logger.Count(logging.ERROR))
}
