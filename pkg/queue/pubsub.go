// pkg/queue/pubsub.go
package queue

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"github.com/tunehound/tunehound/pkg/logging"
)

// PubSubDispatcher publishes tasks to a Cloud Pub/Sub topic and consumes them
// from the matching subscription, so queued recognitions survive a process
// restart.
type PubSubDispatcher struct {
	client  *pubsub.Client
	topic   *pubsub.Topic
	sub     *pubsub.Subscription
	handler Handler
	logger  *logging.Logger
}

// NewPubSubDispatcher expects the topic and a "<topic>-sub" subscription to
// already exist in the project.
func NewPubSubDispatcher(ctx context.Context, projectID, topicID string, handler Handler, logger *logging.Logger) (*PubSubDispatcher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &PubSubDispatcher{
		client:  client,
		topic:   client.Topic(topicID),
		sub:     client.Subscription(topicID + "-sub"),
		handler: handler,
		logger:  logger,
	}, nil
}

// Dispatch publishes the task and waits for the server ack.
func (d *PubSubDispatcher) Dispatch(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	_, err = d.topic.Publish(ctx, &pubsub.Message{Data: data}).Get(ctx)
	return err
}

// Receive blocks consuming tasks; run it on its own goroutine. Undecodable
// messages are nacked so they end up in the dead-letter policy if one is set.
func (d *PubSubDispatcher) Receive(ctx context.Context) error {
	return d.sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		var task Task
		if err := json.Unmarshal(msg.Data, &task); err != nil {
			d.logger.Errorf("bad task payload: %v", err)
			msg.Nack()
			return
		}
		d.handler(ctx, task)
		msg.Ack()
	})
}

func (d *PubSubDispatcher) Close() error {
	d.topic.Stop()
	return d.client.Close()
}
