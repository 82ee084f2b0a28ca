package kafkasource

import (
	"TopSpectra/internal/config"
	"TopSpectra/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
	"golang.org/x/sync/errgroup"
)

// wireEvent is the JSON shape accepted on the Kafka topic.
type wireEvent struct {
	TimestampMs int64  `json:"timestamp_ms"`
	Group       string `json:"group"`
	Value       int64  `json:"value"`
}

// KafkaSource consumes JSON events from a Kafka topic and feeds them into the
// manager's input channel. It is an optional second ingest path next to NATS.
type KafkaSource struct {
	cfg    config.KafkaConfig
	group  sarama.ConsumerGroup
	output chan<- *model.Event

	cancel context.CancelFunc
	eg     *errgroup.Group
}

// NewKafkaSource creates a consumer group for the configured topic.
func NewKafkaSource(cfg config.KafkaConfig, output chan<- *model.Event) (*KafkaSource, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" || cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka brokers, topic and group_id are required")
	}

	scfg := sarama.NewConfig()
	scfg.Version = sarama.V2_1_0_0
	scfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	scfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	scfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, scfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return &KafkaSource{cfg: cfg, group: group, output: output}, nil
}

// Start begins consuming in the background.
func (k *KafkaSource) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel
	eg, ctx := errgroup.WithContext(ctx)
	k.eg = eg

	eg.Go(func() error {
		handler := &groupHandler{output: k.output}
		// sarama requires re-entering Consume after every rebalance.
		for {
			if err := k.group.Consume(ctx, []string{k.cfg.Topic}, handler); err != nil {
				log.Printf("KafkaSource consume error: %v", err)
				time.Sleep(300 * time.Millisecond)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	})

	eg.Go(func() error {
		for {
			select {
			case err, ok := <-k.group.Errors():
				if !ok {
					return nil
				}
				log.Printf("KafkaSource group error: %v", err)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	log.Printf("KafkaSource consuming topic '%s' as group '%s'", k.cfg.Topic, k.cfg.GroupID)
}

// Stop shuts the consumer down and waits for the background goroutines.
func (k *KafkaSource) Stop() {
	log.Println("KafkaSource stopping...")
	if k.cancel != nil {
		k.cancel()
	}
	if k.eg != nil {
		_ = k.eg.Wait()
	}
	if err := k.group.Close(); err != nil {
		log.Printf("Error closing kafka consumer group: %v", err)
	}
	log.Println("KafkaSource stopped.")
}

// groupHandler decodes claimed messages and forwards them as events.
type groupHandler struct {
	output chan<- *model.Event
}

var _ sarama.ConsumerGroupHandler = (*groupHandler)(nil)

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var we wireEvent
		if err := json.Unmarshal(msg.Value, &we); err != nil {
			log.Printf("KafkaSource: dropping undecodable message at p=%d off=%d: %v", msg.Partition, msg.Offset, err)
			sess.MarkMessage(msg, "")
			continue
		}
		sess.MarkMessage(msg, "")

		h.output <- &model.Event{
			Timestamp: time.UnixMilli(we.TimestampMs),
			Group:     we.Group,
			Value:     we.Value,
		}
	}
	return nil
}
