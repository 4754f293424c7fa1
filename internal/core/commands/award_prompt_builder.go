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
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/jaycherian/claymotion-chronicle/internal/core/cor"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
)

// AwardPromptBuilder renders the award facts prompt for the request found
// under AwardRequestParam.
type AwardPromptBuilder struct {
	cor.BaseCommand
	template *template.Template
}

// NewAwardPromptBuilder creates the command. The template receives TYPE, YEAR,
// TOP_CATEGORY and EXAMPLE_JSON.
func NewAwardPromptBuilder(name string, template *template.Template) *AwardPromptBuilder {
	out := &AwardPromptBuilder{BaseCommand: *cor.NewBaseCommand(name), template: template}
	out.InputParamName = AwardRequestParam
	return out
}

// GenerateParams creates the template data for a request.
func (t *AwardPromptBuilder) GenerateParams(request *model.AwardRequest) map[string]interface{} {
	params := make(map[string]interface{})
	params["TYPE"] = string(request.Type)
	params["YEAR"] = request.Year
	params["TOP_CATEGORY"] = model.Meta(request.Type).TopCategory

	// A complete example keeps the model on the exact field names.
	example, _ := json.MarshalIndent(model.GetExampleAwardData(), "", "  ")
	params["EXAMPLE_JSON"] = string(example)
	return params
}

func (t *AwardPromptBuilder) Execute(context cor.Context) {
	request, ok := context.Get(t.GetInputParam()).(*model.AwardRequest)
	if !ok {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("expected *model.AwardRequest under %s", t.GetInputParam()))
		return
	}

	var buffer bytes.Buffer
	if err := t.template.Execute(&buffer, t.GenerateParams(request)); err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), buffer.String())
}
