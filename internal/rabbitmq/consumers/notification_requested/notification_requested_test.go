package notificationrequested

import (
	"context"
	"streemi/internal/core/domain/common"
	"streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	delivernotification "streemi/internal/core/services/deliver_notification"
	"streemi/internal/rabbitmq/schema"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
)

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked++
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type fakeChannel struct {
	deliveries chan amqp091.Delivery
}

func (ch *fakeChannel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp091.Table,
) (<-chan amqp091.Delivery, error) {
	return ch.deliveries, nil
}

type testSuite struct {
	suite.Suite
	Logger   *logging.FakeLogger
	Notifier *notification.FakeNotifier
	Acker    *fakeAcknowledger
	Consumer *Consumer
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.Notifier = notification.NewFakeNotifier()
	s.Acker = &fakeAcknowledger{}
	s.Consumer = New(
		s.Logger,
		&fakeChannel{deliveries: make(chan amqp091.Delivery)},
		"notifications",
		delivernotification.New(s.Logger, s.Notifier),
	)
}

func TestNotificationRequestedConsumer(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestDeliveredMessageIsAcked() {
	s.Consumer.Handle(context.Background(), s.delivery(s.body(), false))

	s.Equal(1, s.Acker.acked)
	s.Equal(0, s.Acker.nacked)
	s.Require().Equal(1, s.Notifier.SentCount())
	sent := s.Notifier.LastSent()
	s.Equal(common.NewEmail("a@x.com"), sent.To)
	s.Equal(notification.PasswordReset, sent.Template)
	s.Equal("T1", sent.Context[notification.ContextResetToken])
}

func (s *testSuite) TestMalformedMessageIsDropped() {
	s.Consumer.Handle(context.Background(), s.delivery([]byte("not json"), false))

	s.Equal(1, s.Acker.acked)
	s.Equal(0, s.Notifier.SentCount())
}

func (s *testSuite) TestFailedDeliveryIsRequeuedOnce() {
	s.Notifier.ReturnError = true

	s.Consumer.Handle(context.Background(), s.delivery(s.body(), false))
	s.Consumer.Handle(context.Background(), s.delivery(s.body(), true))

	s.Equal(0, s.Acker.acked)
	s.Equal([]bool{true, false}, s.Acker.requeue)
}

func (s *testSuite) TestConsumeReadsDeliveries() {
	channel := &fakeChannel{deliveries: make(chan amqp091.Delivery)}
	consumer := New(s.Logger, channel, "notifications", delivernotification.New(s.Logger, s.Notifier))

	s.Require().NoError(consumer.Consume())
	channel.deliveries <- s.delivery(s.body(), false)
	close(channel.deliveries)

	s.Eventually(func() bool { return s.Notifier.SentCount() == 1 }, time.Second, 10*time.Millisecond)
}

func (s *testSuite) body() []byte {
	msg := schema.Notification{
		To:          "a@x.com",
		Template:    string(notification.PasswordReset),
		Context:     map[string]string{notification.ContextResetToken: "T1"},
		RequestedAt: time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC),
	}
	body, err := msg.Marshal()
	s.Require().NoError(err)
	return body
}

func (s *testSuite) delivery(body []byte, redelivered bool) amqp091.Delivery {
	return amqp091.Delivery{
		Acknowledger: s.Acker,
		DeliveryTag:  1,
		Redelivered:  redelivered,
		Body:         body,
	}
}
