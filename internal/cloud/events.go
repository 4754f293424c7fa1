// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides components for interacting with Google Cloud services.
// This file implements the publisher for award fetch events. Publishing is
// best effort: the fetch that triggered an event never waits for, or fails
// because of, Pub/Sub.
package cloud

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"cloud.google.com/go/pubsub"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
)

// EventPublisher receives award fetch notifications.
type EventPublisher interface {
	PublishAwardFetched(ctx context.Context, event model.AwardFetched)
	Stop()
}

// NoopPublisher discards every event. It is used when no topic is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishAwardFetched(context.Context, model.AwardFetched) {}

func (NoopPublisher) Stop() {}

// PubSubPublisher publishes events as JSON messages on a Pub/Sub topic.
type PubSubPublisher struct {
	topic *pubsub.Topic
}

// NewPubSubPublisher returns a publisher bound to topicID.
func NewPubSubPublisher(client *pubsub.Client, topicID string) *PubSubPublisher {
	return &PubSubPublisher{topic: client.Topic(topicID)}
}

// NewEventMessage encodes event as a Pub/Sub message. Attributes carry the
// fields subscribers usually filter on.
func NewEventMessage(event model.AwardFetched) (*pubsub.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"award_type": event.AwardType.Slug(),
			"year":       strconv.Itoa(event.Year),
		},
	}, nil
}

// PublishAwardFetched enqueues the event and logs the outcome in the background.
func (p *PubSubPublisher) PublishAwardFetched(ctx context.Context, event model.AwardFetched) {
	msg, err := NewEventMessage(event)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode award event", "cache_key", event.CacheKey, "error", err)
		return
	}
	result := p.topic.Publish(ctx, msg)
	go func(ctx context.Context) {
		if _, err := result.Get(ctx); err != nil {
			slog.WarnContext(ctx, "failed to publish award event", "cache_key", event.CacheKey, "error", err)
		}
	}(context.WithoutCancel(ctx))
}

// Stop flushes pending messages.
func (p *PubSubPublisher) Stop() {
	p.topic.Stop()
}
