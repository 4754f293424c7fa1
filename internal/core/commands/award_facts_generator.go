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

package commands

import (
	"fmt"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/cor"
)

// AwardFactsGenerator sends the prompt found in its input to the text model
// and outputs the answer with any Markdown code fences removed.
type AwardFactsGenerator struct {
	cor.BaseCommand
	generativeAIModel *cloud.GenerativeAIModel
}

func NewAwardFactsGenerator(name string, generativeAIModel *cloud.GenerativeAIModel) *AwardFactsGenerator {
	return &AwardFactsGenerator{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
	}
}

func (t *AwardFactsGenerator) Execute(context cor.Context) {
	prompt, ok := context.Get(t.GetInputParam()).(string)
	if !ok {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("expected prompt string under %s", t.GetInputParam()))
		return
	}

	out, err := cloud.GenerateText(context.GetContext(), t.generativeAIModel, prompt)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("gemini request failed: %w", err))
		return
	}
	if out == "" {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("gemini returned an empty response"))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
