package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/deencompass/compass/pkg/eventstream"
	"github.com/deencompass/compass/pkg/eventstream/kafka"
	"github.com/deencompass/compass/pkg/llm"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		writer *fakeWriter
		p      *kafka.Publisher
		event  *eventstream.ExchangeEvent
	)

	BeforeEach(func() {
		writer = &fakeWriter{}
		p = kafka.NewPublisherWithWriter(writer)

		now := time.Now()
		event = eventstream.NewExchangeEvent(
			eventstream.EventSource{Provider: "groq", Model: "llama", Style: llm.StyleSampling},
			eventstream.RequestMeta{StartedAt: now, CompletedAt: now},
			[]llm.Message{llm.NewMessage(llm.RoleUser, "hi")},
			"hello",
		)
	})

	It("requires brokers and a topic", func() {
		_, err := kafka.NewPublisher(kafka.Config{Topic: "t"})
		Expect(err).To(HaveOccurred())

		_, err = kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}})
		Expect(err).To(HaveOccurred())

		pub, err := kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}, Topic: "t"})
		Expect(err).NotTo(HaveOccurred())
		Expect(pub).NotTo(BeNil())
	})

	It("writes one JSON message keyed by event id", func() {
		Expect(p.PublishExchange(context.Background(), event)).To(Succeed())
		Expect(writer.messages).To(HaveLen(1))

		msg := writer.messages[0]
		Expect(string(msg.Key)).To(Equal(event.EventID))

		var decoded eventstream.ExchangeEvent
		Expect(json.Unmarshal(msg.Value, &decoded)).To(Succeed())
		Expect(decoded.Reply).To(Equal("hello"))
		Expect(decoded.Source.Provider).To(Equal("groq"))
		Expect(msg.Headers).To(ContainElement(kafkago.Header{Key: "event_type", Value: []byte(eventstream.EventTypeExchangeCompleted)}))
	})

	It("rejects nil and invalid events before writing", func() {
		Expect(p.PublishExchange(context.Background(), nil)).To(MatchError(eventstream.ErrNilExchangeEvent))

		event.EventID = ""
		Expect(p.PublishExchange(context.Background(), event)).To(MatchError(eventstream.ErrInvalidExchangeEvent))
		Expect(writer.messages).To(BeEmpty())
	})

	It("wraps writer errors", func() {
		writer.err = errors.New("leader not available")
		err := p.PublishExchange(context.Background(), event)
		Expect(err).To(MatchError(ContainSubstring("leader not available")))
	})

	It("closes the writer", func() {
		Expect(p.Close()).To(Succeed())
		Expect(writer.closed).To(BeTrue())
	})
})
