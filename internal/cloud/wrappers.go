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
// This file implements a thin decorator around the Gemini models API. It binds
// a model name to its generation settings and records token usage, so that
// commands only deal with prompts and responses.
package cloud

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of *genai.Models used by the application.
// Tests substitute a fake implementation.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenerativeAIModel pairs a model handle with the settings used for every call.
type GenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig
	ModelName               string
	ModelHandle             ContentGenerator
	inputTokenCounter       metric.Int64Counter
	outputTokenCounter      metric.Int64Counter
}

// NewGenerativeAIModel wraps handle for the model called name.
func NewGenerativeAIModel(config *genai.GenerateContentConfig, name string, handle ContentGenerator) *GenerativeAIModel {
	meter := otel.Meter("github.com/jaycherian/claymotion-chronicle")
	in, err := meter.Int64Counter("gemini.token.input")
	if err != nil {
		slog.Warn("failed to create token counter", "error", err)
	}
	out, err := meter.Int64Counter("gemini.token.output")
	if err != nil {
		slog.Warn("failed to create token counter", "error", err)
	}
	return &GenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
		inputTokenCounter:       in,
		outputTokenCounter:      out,
	}
}

// NewGenerateContentConfig translates a GenerativeModel section into the
// request configuration understood by the SDK. Zero values leave the SDK
// defaults in place.
func NewGenerateContentConfig(values GenerativeModel) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr[float32](values.Temperature),
		MaxOutputTokens:    values.MaxTokens,
		SafetySettings:     DefaultSafetySettings,
		ResponseMIMEType:   values.OutputFormat,
		ResponseModalities: values.ResponseModalities,
	}
	if values.TopP > 0 {
		out.TopP = genai.Ptr[float32](values.TopP)
	}
	if values.TopK > 0 {
		out.TopK = genai.Ptr[float32](values.TopK)
	}
	if values.SystemInstructions != "" {
		out.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
	}
	return out
}

// GenerateContent performs exactly one call against the wrapped model.
func (q *GenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if q.ModelHandle == nil {
		return nil, fmt.Errorf("model %s has no client handle", q.ModelName)
	}
	resp, err := q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.UsageMetadata != nil {
		attrs := metric.WithAttributes(attribute.String("model", q.ModelName))
		if q.inputTokenCounter != nil {
			q.inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount), attrs)
		}
		if q.outputTokenCounter != nil {
			q.outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount), attrs)
		}
	}
	return resp, nil
}
