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

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/claymotion-chronicle/internal/api"
	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/jaycherian/claymotion-chronicle/internal/core/services"
	"github.com/jaycherian/claymotion-chronicle/internal/core/workflow"
	test "github.com/jaycherian/claymotion-chronicle/internal/testutil"
	"github.com/jaycherian/claymotion-chronicle/internal/ui"
)

type testServer struct {
	router     *gin.Engine
	gen        *test.FakeGenerator
	awards     *services.AwardsService
	textModel  string
	imageModel string
}

func newTestServer(t *testing.T, configure ...func(*cloud.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config := cloud.NewConfig()
	config.Server.RequestsPerSecond = 0
	for _, fn := range configure {
		fn(config)
	}
	s := &testServer{
		gen:        test.NewFakeGenerator(),
		textModel:  config.AgentModels[cloud.AwardFactsModel].Model,
		imageModel: config.AgentModels[cloud.FigurineModel].Model,
	}
	s.gen.On(s.textModel, test.TextResponse(test.GetTestFencedAwardJSON()), nil)
	s.gen.On(s.imageModel, test.ImageResponse("image/png", test.TestPNG), nil)

	w, err := workflow.NewAwardFetchWorkflow(config, cloud.NewAgentModels(config, s.gen))
	require.NoError(t, err)
	s.awards = services.NewAwardsService(w, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h, err := api.NewHandlers(ctx, config, s.awards)
	require.NoError(t, err)
	s.router = api.NewRouter(h)
	return s
}

func (s *testServer) do(method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthzAndRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(api.RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	rec = s.do(http.MethodGet, "/healthz", http.Header{api.RequestIDHeader: {id}})
	assert.Equal(t, id, rec.Header().Get(api.RequestIDHeader))

	rec = s.do(http.MethodGet, "/healthz", http.Header{api.RequestIDHeader: {"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(api.RequestIDHeader))
}

func TestListAwards(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/awards", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var metas []model.AwardMeta
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metas))
	require.Len(t, metas, 6)
	assert.Equal(t, model.Oscars, metas[0].Type)
	assert.Equal(t, "#2d132c", metas[5].SecondaryColor)
}

func TestGetAward(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/awards/oscars/1977", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data model.AwardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "Rocky", data.Winner.Title)
	assert.Len(t, data.Nominees, 4)
	assert.True(t, strings.HasPrefix(data.ImageURL, "data:image/png;base64,"))

	rec = s.do(http.MethodGet, "/api/v1/awards/Oscars/1977", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.gen.Calls(), 2, "second request is served from the cache")
}

func TestGetAwardRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/v1/awards/grammys/1977",
		"/api/v1/awards/oscars/1900",
		"/api/v1/awards/oscars/2025",
		"/api/v1/awards/oscars/nineteen",
	} {
		rec := s.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Empty(t, s.gen.Calls())
}

func TestGetAwardUpstreamFailure(t *testing.T) {
	s := newTestServer(t)
	s.gen.On(s.textModel, nil, errors.New("unavailable"))

	rec := s.do(http.MethodGet, "/api/v1/awards/bafta/2001", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch award data. Please try again.", body["error"])
}

func TestGetAwardImage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/awards/oscars/1977/image", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, test.TestPNG, rec.Body.Bytes())

	s.gen.On(s.imageModel, nil, errors.New("no image model"))
	rec = s.do(http.MethodGet, "/api/v1/awards/tonys/1977/image", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://placehold.co/600x800/2d132c/c0c0c0?text="))
}

func TestClearCacheAndStats(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/api/v1/awards/emmys/1990", nil)
	assert.Equal(t, 1, s.awards.CacheSize())

	rec := s.do(http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats["cacheSize"])
	assert.Equal(t, 6, stats["awardTypes"])

	rec = s.do(http.MethodDelete, "/api/v1/cache", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, s.awards.CacheSize())

	s.do(http.MethodGet, "/api/v1/awards/emmys/1990", nil)
	assert.Equal(t, 2, s.gen.CallCount(s.textModel))
}

func TestSlider(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/v1/slider?year=1976", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view ui.SliderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.InDelta(t, 49.47, view.ProgressPercent, 0.01)
	assert.Equal(t, 25, view.EraHue)
	assert.Equal(t, "Blockbuster Revolution", view.EraName)
	assert.Len(t, view.Markers, 10)

	rec = s.do(http.MethodGet, "/api/v1/slider", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, model.DefaultYear, view.Year)

	rec = s.do(http.MethodGet, "/api/v1/slider?year=1800", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(api.RateLimit(0.001, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/?award=emmys&year=1977", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := test.ParseHTML(t, rec.Body.Bytes())

	assert.Equal(t, "Rocky", strings.TrimSpace(doc.Find(".card-title").Text()))
	assert.Equal(t, "Showrunner", doc.Find(".card-creative .label").Text())
	assert.Equal(t, 4, doc.Find("li.nominee").Length())
	assert.Equal(t, "Emmys", doc.Find(".award-option.selected").AttrOr("data-award", ""))
	assert.Equal(t, 6, doc.Find(".award-option").Length())
	assert.Equal(t, "Blockbuster Revolution", doc.Find(".era-name").Text())
	assert.Equal(t, 1, doc.Find(".marker.active").Length())
	assert.Equal(t, "1970", doc.Find(".marker.active").Text())
	src := doc.Find(".card-image img").AttrOr("src", "")
	assert.True(t, strings.HasPrefix(src, "data:image/png;base64,"), src)
	assert.Contains(t, doc.Find(".award-card").AttrOr("style", ""), "rotateX(0deg) rotateY(0deg) scale(1)")
	assert.Equal(t, 0, doc.Find(".error-state").Length())
}

func TestIndexPageErrors(t *testing.T) {
	s := newTestServer(t)
	s.gen.On(s.textModel, test.TextResponse("no idea"), nil)

	rec := s.do(http.MethodGet, "/?award=oscars&year=1950", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	doc := test.ParseHTML(t, rec.Body.Bytes())
	assert.Equal(t, ui.DefaultErrorTitle, doc.Find(".error-title").Text())
	assert.Equal(t, "Failed to fetch award data. Please try again.", doc.Find(".error-message").Text())
	assert.Equal(t, 0, doc.Find(".award-card").Length())

	rec = s.do(http.MethodGet, "/?award=oscars&year=3000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	doc = test.ParseHTML(t, rec.Body.Bytes())
	assert.Equal(t, 1, doc.Find(".error-state").Length())
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(api.SessionFrame) bool) api.SessionFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var frame api.SessionFrame
		require.NoError(t, conn.ReadJSON(&frame))
		if match(frame) {
			return frame
		}
	}
}

func loadedFor(year int) func(api.SessionFrame) bool {
	return func(f api.SessionFrame) bool {
		return f.Type == "state" && f.State != nil && f.State.Phase == ui.PhaseLoaded && f.State.Year == year
	}
}

func TestSession(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/session?award=oscars&year=1977"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	frame := readUntil(t, conn, loadedFor(1977))
	assert.Equal(t, "Rocky", frame.State.Data.Winner.Title)
	assert.Equal(t, "Directed by", frame.CreativeLabel)
	assert.Equal(t, "#d4af37", frame.Colors.Primary)
	assert.Equal(t, 25, frame.Slider.EraHue)
	assert.NotEmpty(t, frame.SessionID)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"step": "next"}))
	frame = readUntil(t, conn, loadedFor(1978))
	assert.Equal(t, model.Oscars, frame.State.Award)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"award": "tonys"}))
	frame = readUntil(t, conn, func(f api.SessionFrame) bool {
		return f.State != nil && f.State.Phase == ui.PhaseLoaded && f.State.Award == model.Tonys
	})
	assert.Equal(t, "Created by", frame.CreativeLabel)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"award": "grammys"}))
	frame = readUntil(t, conn, func(f api.SessionFrame) bool { return f.Type == "error" })
	assert.Contains(t, frame.Message, "unknown award type")

	s.gen.On(s.textModel, nil, errors.New("unavailable"))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"decade": 1990}))
	frame = readUntil(t, conn, func(f api.SessionFrame) bool {
		return f.State != nil && f.State.Phase == ui.PhaseError
	})
	require.NotNil(t, frame.ErrorPanel)
	assert.Equal(t, "Failed to fetch award data. Please try again.", frame.ErrorPanel.Message)
	assert.Equal(t, 1990, frame.State.Year)
}

func dialSession(srv *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/session?award=oscars&year=1977"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestSessionOriginCheck(t *testing.T) {
	s := newTestServer(t, func(c *cloud.Config) {
		c.Server.AllowedOrigins = []string{"https://awards.example.com"}
	})
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	for _, origin := range []string{"", srv.URL, "https://awards.example.com"} {
		conn, _, err := dialSession(srv, origin)
		require.NoError(t, err, origin)
		conn.Close()
	}

	conn, resp, err := dialSession(srv, "https://elsewhere.example.net")
	require.Error(t, err)
	assert.Nil(t, conn)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCORSAllowedOrigins(t *testing.T) {
	s := newTestServer(t, func(c *cloud.Config) {
		c.Server.AllowedOrigins = []string{"https://awards.example.com"}
	})

	rec := s.do(http.MethodGet, "/api/v1/awards", http.Header{"Origin": {"https://awards.example.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://awards.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(http.MethodGet, "/api/v1/awards", http.Header{"Origin": {"https://elsewhere.example.net"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
