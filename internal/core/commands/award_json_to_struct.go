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
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/jaycherian/claymotion-chronicle/internal/core/cor"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/microcosm-cc/bluemonday"
)

// ErrMissingWinner is recorded when the decoded document has no winner title.
var ErrMissingWinner = errors.New("award data has no winner title")

// AwardJsonToStruct decodes the model's JSON answer into a *model.AwardData.
// Every string is reduced to plain text since the values end up in HTML.
type AwardJsonToStruct struct {
	cor.BaseCommand
	policy *bluemonday.Policy
}

func NewAwardJsonToStruct(name string) *AwardJsonToStruct {
	return &AwardJsonToStruct{
		BaseCommand: *cor.NewBaseCommand(name),
		policy:      bluemonday.StrictPolicy(),
	}
}

// plainText drops any markup. The policy escapes entities on output, which
// html/template would do a second time, so they are decoded again here.
func (s *AwardJsonToStruct) plainText(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

func (s *AwardJsonToStruct) Execute(context cor.Context) {
	in, ok := context.Get(s.GetInputParam()).(string)
	if !ok {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("expected JSON string under %s", s.GetInputParam()))
		return
	}

	data := &model.AwardData{}
	if err := json.Unmarshal([]byte(in), data); err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to parse award data: %w", err))
		return
	}

	data.Winner.Title = s.plainText(data.Winner.Title)
	data.Winner.LeadCreative = s.plainText(data.Winner.LeadCreative)
	data.Winner.IconicSceneDescription = s.plainText(data.Winner.IconicSceneDescription)
	nominees := make([]model.Nominee, 0, len(data.Nominees))
	for _, n := range data.Nominees {
		nominees = append(nominees, model.Nominee{Title: s.plainText(n.Title)})
	}
	data.Nominees = nominees
	// The image is always produced by the next step, never by the text model.
	data.ImageURL = ""

	if data.Winner.Title == "" {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), ErrMissingWinner)
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(s.GetOutputParam(), data)
}
