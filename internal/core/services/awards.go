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

// Package services contains the business logic behind the HTTP handlers.
// This file defines the AwardsService, which fetches award data through the
// award fetch workflow and keeps every successful result in memory for the
// life of the process.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/commands"
	"github.com/jaycherian/claymotion-chronicle/internal/core/cor"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrFetchFailed is returned when the award facts could not be produced.
	// Its message is shown to users as is.
	ErrFetchFailed = errors.New("Failed to fetch award data. Please try again.")
	// ErrYearOutOfRange is returned for years outside model.MinYear..model.MaxYear.
	ErrYearOutOfRange = errors.New("year out of range")
)

// FetchError reports a failed fetch. It matches ErrFetchFailed with errors.Is
// and also unwraps to the underlying cause.
type FetchError struct {
	CacheKey string
	Cause    error
}

func (e *FetchError) Error() string {
	return ErrFetchFailed.Error()
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Cause}
}

// AwardFetcher is implemented by AwardsService. The UI root and the HTTP
// handlers depend on it rather than on the concrete service.
type AwardFetcher interface {
	FetchAwardData(ctx context.Context, year int, awardType model.AwardType) (*model.AwardData, error)
}

// AwardsService serves award data from its cache, running the workflow on a miss.
type AwardsService struct {
	workflow cor.Executable
	events   cloud.EventPublisher

	mu    sync.RWMutex
	cache map[string]*model.AwardData

	hitCounter   metric.Int64Counter
	missCounter  metric.Int64Counter
	errorCounter metric.Int64Counter
}

// NewAwardsService creates a service running workflow on cache misses.
// A nil publisher disables events.
func NewAwardsService(workflow cor.Executable, events cloud.EventPublisher) *AwardsService {
	if events == nil {
		events = cloud.NoopPublisher{}
	}
	meter := otel.Meter(cor.MeterName)
	s := &AwardsService{
		workflow: workflow,
		events:   events,
		cache:    make(map[string]*model.AwardData),
	}
	s.hitCounter, _ = meter.Int64Counter("awards.cache.hit")
	s.missCounter, _ = meter.Int64Counter("awards.cache.miss")
	s.errorCounter, _ = meter.Int64Counter("awards.fetch.error")
	return s
}

// FetchAwardData returns the award data for awardType in year. Repeated calls
// for the same pair return the same pointer without contacting the model.
// The returned value must not be modified. Nothing is cached when ctx is
// cancelled before the workflow completes.
func (s *AwardsService) FetchAwardData(ctx context.Context, year int, awardType model.AwardType) (*model.AwardData, error) {
	if !awardType.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownAwardType, awardType)
	}
	if !model.YearInRange(year) {
		return nil, fmt.Errorf("%w: %d is not between %d and %d", ErrYearOutOfRange, year, model.MinYear, model.MaxYear)
	}

	key := model.CacheKey(awardType, year)
	attrs := metric.WithAttributes(attribute.String("award_type", string(awardType)))

	if data, ok := s.lookup(key); ok {
		s.hitCounter.Add(ctx, 1, attrs)
		return data, nil
	}
	s.missCounter.Add(ctx, 1, attrs)

	chCtx := cor.NewBaseContext()
	chCtx.SetContext(ctx)
	chCtx.Add(commands.AwardRequestParam, &model.AwardRequest{Type: awardType, Year: year})
	s.workflow.Execute(chCtx)

	if err := ctx.Err(); err != nil {
		slog.InfoContext(ctx, "award fetch abandoned, result not cached", "cache_key", key, "error", err)
		return nil, &FetchError{CacheKey: key, Cause: err}
	}
	if chCtx.HasErrors() {
		s.errorCounter.Add(ctx, 1, attrs)
		causes := make([]error, 0, len(chCtx.GetErrors()))
		for name, err := range chCtx.GetErrors() {
			slog.ErrorContext(ctx, "error fetching award data", "cache_key", key, "command", name, "error", err)
			causes = append(causes, err)
		}
		return nil, &FetchError{CacheKey: key, Cause: errors.Join(causes...)}
	}

	data, ok := chCtx.Get(commands.AwardDataParam).(*model.AwardData)
	if !ok {
		s.errorCounter.Add(ctx, 1, attrs)
		slog.ErrorContext(ctx, "award workflow produced no data", "cache_key", key)
		return nil, &FetchError{CacheKey: key, Cause: errors.New("workflow produced no award data")}
	}

	stored := s.store(key, data)
	if stored == data {
		s.events.PublishAwardFetched(ctx, model.AwardFetched{
			AwardType:      awardType,
			Year:           year,
			CacheKey:       key,
			WinnerTitle:    data.Winner.Title,
			NomineeCount:   len(data.Nominees),
			GeneratedImage: strings.HasPrefix(data.ImageURL, "data:"),
			FetchedAt:      time.Now().UTC(),
		})
	}
	return stored, nil
}

func (s *AwardsService) lookup(key string) (*model.AwardData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.cache[key]
	return data, ok
}

// store keeps the first value stored under key and returns it.
func (s *AwardsService) store(key string, data *model.AwardData) *model.AwardData {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[key]; ok {
		return existing
	}
	s.cache[key] = data
	return data
}

// ClearCache drops every cached entry.
func (s *AwardsService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*model.AwardData)
}

// CacheSize returns the number of cached entries.
func (s *AwardsService) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
