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
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/jaycherian/claymotion-chronicle/internal/ui"
)

// SliderRouter registers the slider view model endpoint.
func SliderRouter(r *gin.RouterGroup) {
	r.GET("/slider", func(c *gin.Context) {
		year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(model.DefaultYear)))
		if err != nil || !model.YearInRange(year) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("year must be between %d and %d", model.MinYear, model.MaxYear)})
			return
		}
		c.JSON(http.StatusOK, ui.NewYearSlider(year).View())
	})
}
