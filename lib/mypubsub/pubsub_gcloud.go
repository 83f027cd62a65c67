package mypubsub

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudPubSub
	}
}

type gcloudPubSub struct {
	client *pubsub.Client
}

func newGcloudPubSub(c context.Context) (PubSub, func(), error) {
	client, err := pubsub.NewClient(c, os.Getenv("GOOGLE_CLOUD_PROJECT"))
	if err != nil {
		return nil, func() {}, fmt.Errorf("error creating pubsub-client: %s", err)
	}

	return &gcloudPubSub{
			client: client,
		}, func() {
			client.Close()
		}, nil
}

func (ps *gcloudPubSub) CreateTopic(c context.Context, topicName string) error {
	_, err := ps.client.CreateTopic(c, topicName)
	if err != nil && !strings.Contains(err.Error(), "AlreadyExists") {
		return fmt.Errorf("error creating topic %s: %s", topicName, err)
	}

	return nil
}

func (ps *gcloudPubSub) Subscribe(c context.Context, topicName string, urlToPostTo string) error {
	err := ps.CreateTopic(c, topicName)
	if err != nil {
		return err
	}

	topic := ps.client.Topic(topicName)
	_, err = ps.client.CreateSubscription(c, topicName, pubsub.SubscriptionConfig{
		Topic: topic,
		PushConfig: pubsub.PushConfig{
			Endpoint: urlToPostTo,
		},
		AckDeadline:                   time.Second * 10,
		RetentionDuration:             time.Hour * 24,
		ExpirationPolicy:              time.Duration(0),
		TopicMessageRetentionDuration: time.Hour * 24,
	})
	if err != nil && !strings.Contains(err.Error(), "AlreadyExists") {
		return fmt.Errorf("error subscribing to topic %s: %s", topicName, err)
	}

	return nil
}

func (ps *gcloudPubSub) Publish(c context.Context, topicName string, payload string) error {
	topic := ps.client.Topic(topicName)
	defer topic.Stop()

	result := topic.Publish(c, &pubsub.Message{
		Data: []byte(payload),
	})

	_, err := result.Get(c)
	if err != nil {
		return fmt.Errorf("error publishing on topic %s: %s", topicName, err)
	}

	return nil
}
