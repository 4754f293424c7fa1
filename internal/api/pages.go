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

package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/jaycherian/claymotion-chronicle/internal/ui"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// PageData is the view model of the index page.
type PageData struct {
	Year         int
	Award        model.AwardType
	Selector     []ui.SelectorItem
	Slider       ui.SliderView
	Colors       ui.Colors
	Icon         string
	Phase        ui.Phase
	Card         *ui.Card
	Nominees     *ui.NomineesList
	ErrorPanel   *ui.ErrorPanel
	Spinner      ui.Spinner
	PrevYear     int
	NextYear     int
	CanStepBack  bool
	CanStepAhead bool
}

type pageRenderer struct {
	templates *template.Template
}

// imageSource lets generated data URIs through and blanks anything that is
// neither a data image nor an https URL.
func imageSource(src string) template.URL {
	if strings.HasPrefix(src, "data:image/") || strings.HasPrefix(src, "https://") {
		return template.URL(src)
	}
	return ""
}

func newPageRenderer() (*pageRenderer, error) {
	funcMap := template.FuncMap{
		"imageSource": imageSource,
		// Transform strings only ever contain numbers produced by ui.TiltState.
		"cssTransform": func(t ui.TiltState) template.CSS { return template.CSS(t.Transform()) },
		"slug":         func(t model.AwardType) string { return t.Slug() },
	}
	t, err := template.New("_root").Funcs(funcMap).ParseFS(templateFiles, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &pageRenderer{templates: t}, nil
}

func (p *pageRenderer) render(c *gin.Context, status int, data PageData) {
	var buffer bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buffer, "index", data); err != nil {
		slog.ErrorContext(c.Request.Context(), "template exec error", "error", err)
		c.String(http.StatusInternalServerError, "template exec error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buffer.Bytes())
}

// newPageData computes everything but the award-specific panels.
func newPageData(year int, awardType model.AwardType) PageData {
	slider := ui.NewYearSlider(year)
	meta := model.Meta(awardType)
	prev, canPrev := slider.Decrement()
	next, canNext := slider.Increment()
	return PageData{
		Year:         year,
		Award:        awardType,
		Selector:     ui.SelectorItems(awardType),
		Slider:       slider.View(),
		Colors:       ui.Colors{Primary: meta.PrimaryColor, Secondary: meta.SecondaryColor},
		Icon:         meta.Icon,
		Spinner:      ui.NewSpinner(ui.RandomLoadingMessage(), awardType),
		PrevYear:     prev,
		NextYear:     next,
		CanStepBack:  canPrev,
		CanStepAhead: canNext,
	}
}

// PageRouter registers the server rendered page.
func PageRouter(r *gin.Engine, h *Handlers) {
	r.GET("/", func(c *gin.Context) {
		awardType, year, err := parseSelection(
			c.DefaultQuery("award", string(model.DefaultAward)),
			c.DefaultQuery("year", strconv.Itoa(model.DefaultYear)))
		if err != nil {
			data := newPageData(model.DefaultYear, model.DefaultAward)
			data.Phase = ui.PhaseError
			panel := ui.NewErrorPanel(err.Error())
			data.ErrorPanel = &panel
			h.pages.render(c, http.StatusBadRequest, data)
			return
		}

		data := newPageData(year, awardType)
		award, err := h.awards.FetchAwardData(c.Request.Context(), year, awardType)
		if err != nil {
			data.Phase = ui.PhaseError
			panel := ui.NewErrorPanel(ui.ErrorMessage(err))
			data.ErrorPanel = &panel
			h.pages.render(c, statusFor(err), data)
			return
		}

		data.Phase = ui.PhaseLoaded
		data.Card = ui.NewCard(award, year, awardType)
		data.Nominees = ui.NewNomineesList(award.Nominees, awardType, year)
		h.pages.render(c, http.StatusOK, data)
	})
}
