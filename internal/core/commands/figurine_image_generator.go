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
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/cor"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"
)

// ErrNoImagePart is recorded as a warning when the image model answers
// without any inline image.
var ErrNoImagePart = errors.New("response contains no image part")

// FigurineImageGenerator asks the image model for a vinyl figurine diorama of
// the winner's iconic scene and stores it on the award data as a data URI.
// Any failure falls back to a placeholder URL and is recorded as a warning
// only. The one exception is a cancelled request, which is recorded as an
// error so the caller does not keep the placeholder.
type FigurineImageGenerator struct {
	cor.BaseCommand
	generativeAIModel  *cloud.GenerativeAIModel
	template           *template.Template
	placeholderCounter metric.Int64Counter
}

func NewFigurineImageGenerator(name string, generativeAIModel *cloud.GenerativeAIModel, template *template.Template) *FigurineImageGenerator {
	out := &FigurineImageGenerator{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template,
	}
	out.placeholderCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.counter.placeholder", name))
	return out
}

func (t *FigurineImageGenerator) Execute(context cor.Context) {
	data, ok := context.Get(t.GetInputParam()).(*model.AwardData)
	if !ok {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("expected *model.AwardData under %s", t.GetInputParam()))
		return
	}
	request, _ := context.Get(AwardRequestParam).(*model.AwardRequest)
	awardType := model.DefaultAward
	if request != nil {
		awardType = request.Type
	}

	imageURL, err := t.generate(context, data.Winner.IconicSceneDescription)
	if err != nil && context.GetContext().Err() != nil {
		// A cancelled request must never leave a placeholder behind.
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("image generation interrupted: %w", context.GetContext().Err()))
		return
	}
	if err != nil {
		slog.WarnContext(context.GetContext(), "image generation failed, using placeholder",
			"command", t.GetName(), "award_type", awardType, "error", err)
		context.AddWarning(t.GetName(), err)
		if t.placeholderCounter != nil {
			t.placeholderCounter.Add(context.GetContext(), 1)
		}
		imageURL = PlaceholderImageURL(data.Winner.IconicSceneDescription, awardType)
	} else {
		t.GetSuccessCounter().Add(context.GetContext(), 1)
	}

	data.ImageURL = imageURL
	context.Add(t.GetOutputParam(), data)
}

func (t *FigurineImageGenerator) generate(context cor.Context, sceneDescription string) (string, error) {
	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, map[string]interface{}{"SCENE_DESCRIPTION": sceneDescription}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	resp, err := t.generativeAIModel.GenerateContent(context.GetContext(), genai.Text(buffer.String()))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	blob := cloud.FirstImagePart(resp)
	if blob == nil {
		return "", ErrNoImagePart
	}
	return cloud.DataURI(blob), nil
}
