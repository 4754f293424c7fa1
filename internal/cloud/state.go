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
// This file builds the ServiceClients container: the Gemini client, one
// configured model wrapper per entry of Config.AgentModels, and the optional
// Pub/Sub publisher.
package cloud

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"google.golang.org/genai"
)

// ServiceClients holds the external connections shared by the application.
type ServiceClients struct {
	GenAIClient  *genai.Client
	PubsubClient *pubsub.Client                // Nil when no events topic is configured.
	AgentModels  map[string]*GenerativeAIModel // Keyed by the names in Config.AgentModels.
	Events       EventPublisher
}

// Close flushes the publisher and releases the Pub/Sub connection.
// The genai client holds no resources that need closing.
func (c *ServiceClients) Close() {
	if c.Events != nil {
		c.Events.Stop()
	}
	if c.PubsubClient != nil {
		_ = c.PubsubClient.Close()
	}
}

// NewGenAIClientConfig selects the backend and credentials for the genai client.
func NewGenAIClientConfig(config *Config, apiKey string) *genai.ClientConfig {
	if config.Application.Backend == BackendVertex {
		return &genai.ClientConfig{
			Project:  config.Application.GoogleProjectId,
			Location: config.Application.GoogleLocation,
			Backend:  genai.BackendVertexAI,
		}
	}
	return &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
}

// NewAgentModels creates a wrapper for every configured model on top of handle.
func NewAgentModels(config *Config, handle ContentGenerator) map[string]*GenerativeAIModel {
	agentModels := make(map[string]*GenerativeAIModel, len(config.AgentModels))
	for key, values := range config.AgentModels {
		agentModels[key] = NewGenerativeAIModel(NewGenerateContentConfig(values), values.Model, handle)
	}
	return agentModels
}

// NewCloudServiceClients initializes every client required by the configuration.
func NewCloudServiceClients(ctx context.Context, config *Config, apiKey string) (*ServiceClients, error) {
	gc, err := genai.NewClient(ctx, NewGenAIClientConfig(config, apiKey))
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}

	for _, name := range []string{AwardFactsModel, FigurineModel} {
		if _, ok := config.AgentModels[name]; !ok {
			return nil, fmt.Errorf("agent model %q is not configured", name)
		}
	}

	out := &ServiceClients{
		GenAIClient: gc,
		AgentModels: NewAgentModels(config, gc.Models),
		Events:      NoopPublisher{},
	}

	if config.Events.Topic != "" {
		pc, err := pubsub.NewClient(ctx, config.Application.GoogleProjectId)
		if err != nil {
			return nil, fmt.Errorf("error creating pubsub client: %w", err)
		}
		out.PubsubClient = pc
		out.Events = NewPubSubPublisher(pc, config.Events.Topic)
		slog.Info("publishing award events", "topic", config.Events.Topic)
	}

	return out, nil
}
