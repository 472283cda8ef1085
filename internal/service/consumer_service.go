package service

import (
	"context"
	"encoding/json"
	"log"

	"real-estate-be/internal/dto"
	"real-estate-be/pkg/assistant/search"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService reacts to listing change events. The assistant caches
// search results, so any create/update/delete must flush that cache or the
// assistant keeps recommending stale listings.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	searchAdapter *search.Adapter
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	searchAdapter *search.Adapter,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		searchAdapter: searchAdapter,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PostEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal post event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Post %s changed (%s), flushing search cache", payload.PostId, payload.Change)
	cs.searchAdapter.FlushCache()
	msg.Ack()
}
