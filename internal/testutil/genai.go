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

package test

import (
	"context"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// FakeCall records one request received by a FakeGenerator.
type FakeCall struct {
	Model       string
	Prompt      string
	Temperature float32
}

type fakeResult struct {
	response *genai.GenerateContentResponse
	err      error
}

// FakeGenerator implements cloud.ContentGenerator with canned answers per
// model name. It is safe for concurrent use.
type FakeGenerator struct {
	mu      sync.Mutex
	results map[string]fakeResult
	hooks   map[string]func(context.Context)
	calls   []FakeCall
}

func NewFakeGenerator() *FakeGenerator {
	return &FakeGenerator{results: make(map[string]fakeResult), hooks: make(map[string]func(context.Context))}
}

// OnCall runs fn with the request context each time model is called, after
// the call is recorded and before the answer is chosen. A hook that cancels
// or waits on the context makes the call fail with the context error.
func (f *FakeGenerator) OnCall(model string, fn func(ctx context.Context)) *FakeGenerator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[model] = fn
	return f
}

// On sets the answer returned for every call to model.
func (f *FakeGenerator) On(model string, response *genai.GenerateContentResponse, err error) *FakeGenerator {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[model] = fakeResult{response: response, err: err}
	return f
}

func (f *FakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var prompt strings.Builder
	for _, c := range contents {
		for _, p := range c.Parts {
			prompt.WriteString(p.Text)
		}
	}
	call := FakeCall{Model: model, Prompt: prompt.String()}
	if config != nil && config.Temperature != nil {
		call.Temperature = *config.Temperature
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	result, ok := f.results[model]
	hook := f.hooks[model]
	f.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return &genai.GenerateContentResponse{}, nil
	}
	return result.response, result.err
}

// Calls returns a copy of every recorded call, oldest first.
func (f *FakeGenerator) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many calls model received.
func (f *FakeGenerator) CallCount(model string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Model == model {
			n++
		}
	}
	return n
}

// TextResponse builds a single candidate response holding text.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}}},
	}
}

// ImageResponse builds a response with a short caption followed by an inline image.
func ImageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{Text: "Here is your diorama."},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		}}}},
	}
}
