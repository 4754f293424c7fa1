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

// Package api exposes the award service over HTTP: a JSON API under /api/v1,
// a websocket session that streams the selection state, and a server rendered
// page at the root.
package api

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/services"
)

// AwardStore is the part of services.AwardsService used by the handlers.
type AwardStore interface {
	services.AwardFetcher
	ClearCache()
	CacheSize() int
}

// Handlers carries the dependencies shared by every route.
type Handlers struct {
	config   *cloud.Config
	awards   AwardStore
	pages    *pageRenderer
	upgrader websocket.Upgrader
	// sessions bounds the fetches started by websocket sessions; it is
	// cancelled when the server shuts down.
	sessions context.Context
}

// NewHandlers creates the handlers. ctx is the server lifetime context.
func NewHandlers(ctx context.Context, config *cloud.Config, awards AwardStore) (*Handlers, error) {
	pages, err := newPageRenderer()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		config:   config,
		awards:   awards,
		pages:    pages,
		upgrader: newUpgrader(config.Server.AllowedOrigins),
		sessions: ctx,
	}, nil
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(h.config.Application.Name))
	r.Use(corsMiddleware(h.config.Server.AllowedOrigins))
	r.Use(RequestID())
	r.Use(RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(200, "ok")
	})
	PageRouter(r, h)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(RateLimit(h.config.Server.RequestsPerSecond, h.config.Server.Burst))
	{
		AwardsRouter(apiV1, h)
		SliderRouter(apiV1)
		SessionRouter(apiV1, h)
		Dashboard(apiV1, h)
	}
	return r
}

// corsMiddleware allows every origin when none are configured, which keeps
// local front-end development working, and only the listed ones otherwise.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return cors.Default()
	}
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{http.MethodGet, http.MethodDelete, http.MethodOptions}
	config.AllowHeaders = append(config.AllowHeaders, RequestIDHeader)
	config.ExposeHeaders = []string{RequestIDHeader}
	return cors.New(config)
}
