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
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/jaycherian/claymotion-chronicle/internal/core/services"
)

// AwardsRouter registers the award and cache endpoints.
func AwardsRouter(r *gin.RouterGroup, h *Handlers) {
	awards := r.Group("/awards")
	{
		awards.GET("", func(c *gin.Context) {
			types := model.AwardTypes()
			out := make([]model.AwardMeta, 0, len(types))
			for _, t := range types {
				out = append(out, model.Meta(t))
			}
			c.JSON(http.StatusOK, out)
		})

		awards.GET("/:type/:year", func(c *gin.Context) {
			data, ok := h.fetch(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, data)
		})

		awards.GET("/:type/:year/image", func(c *gin.Context) {
			data, ok := h.fetch(c)
			if !ok {
				return
			}
			if !strings.HasPrefix(data.ImageURL, "data:") {
				c.Redirect(http.StatusFound, data.ImageURL)
				return
			}
			contentType, payload, err := decodeDataURI(data.ImageURL)
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "failed to decode image", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid image data"})
				return
			}
			c.Header("Cache-Control", "private, max-age=3600")
			c.Data(http.StatusOK, contentType, payload)
		})
	}

	r.DELETE("/cache", func(c *gin.Context) {
		h.awards.ClearCache()
		slog.InfoContext(c.Request.Context(), "award cache cleared")
		c.Status(http.StatusNoContent)
	})
}

// parseSelection reads an award type and a year from raw request values.
func parseSelection(rawType, rawYear string) (model.AwardType, int, error) {
	awardType, err := model.ParseAwardType(rawType)
	if err != nil {
		return "", 0, err
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q is not a year", services.ErrYearOutOfRange, rawYear)
	}
	if !model.YearInRange(year) {
		return "", 0, fmt.Errorf("%w: %d is not between %d and %d", services.ErrYearOutOfRange, year, model.MinYear, model.MaxYear)
	}
	return awardType, year, nil
}

// fetch resolves the award named by the path and writes the error response
// itself when that fails.
func (h *Handlers) fetch(c *gin.Context) (*model.AwardData, bool) {
	awardType, year, err := parseSelection(c.Param("type"), c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	data, err := h.awards.FetchAwardData(c.Request.Context(), year, awardType)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return data, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, services.ErrYearOutOfRange), errors.Is(err, model.ErrUnknownAwardType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeDataURI returns the content type and bytes of a base64 data URI. The
// content type is taken from the bytes when they are a known format.
func decodeDataURI(uri string) (string, []byte, error) {
	header, encoded, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found || !strings.HasSuffix(header, ";base64") {
		return "", nil, errors.New("not a base64 data uri")
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, err
	}
	contentType := strings.TrimSuffix(header, ";base64")
	if kind, err := filetype.Match(payload); err == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType, payload, nil
}
