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
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/jaycherian/claymotion-chronicle/internal/ui"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 32
)

// newUpgrader accepts requests without an Origin header, requests from the
// serving host and requests from allowedOrigins.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.ToLower(strings.TrimSuffix(origin, "/"))] = true
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if allowed[strings.ToLower(origin)] {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return strings.EqualFold(u.Host, r.Host)
		},
	}
}

// SessionCommand is a message sent by the client. Exactly one field is
// expected to be set; the first one found is applied.
type SessionCommand struct {
	Year   *int    `json:"year,omitempty"`
	Award  *string `json:"award,omitempty"`
	Step   string  `json:"step,omitempty"`   // "next" or "prev"
	Decade *int    `json:"decade,omitempty"` // Quick jump.
	Retry  bool    `json:"retry,omitempty"`
}

// SessionFrame is a message sent to the client.
type SessionFrame struct {
	Type          string         `json:"type"` // "state" or "error"
	SessionID     string         `json:"sessionId"`
	State         *ui.State      `json:"state,omitempty"`
	Slider        *ui.SliderView `json:"slider,omitempty"`
	Colors        *ui.Colors     `json:"colors,omitempty"`
	Icon          string         `json:"icon,omitempty"`
	IsChanging    bool           `json:"isChanging"`
	Spinner       *ui.Spinner    `json:"spinner,omitempty"`
	ErrorPanel    *ui.ErrorPanel `json:"errorPanel,omitempty"`
	CreativeLabel string         `json:"creativeLabel,omitempty"`
	Message       string         `json:"message,omitempty"`
}

// Session binds one websocket connection to its own ui.Root.
type Session struct {
	id       string
	conn     *websocket.Conn
	root     *ui.Root
	changing *ui.ChangeFlag
	send     chan []byte
	done     chan struct{}
	closed   sync.Once
	cancel   context.CancelFunc
}

// SessionRouter registers the websocket endpoint. The optional year and award
// query parameters set the initial selection.
func SessionRouter(r *gin.RouterGroup, h *Handlers) {
	r.GET("/session", func(c *gin.Context) {
		awardType, year, err := parseSelection(
			c.DefaultQuery("award", string(model.DefaultAward)),
			c.DefaultQuery("year", strconv.Itoa(model.DefaultYear)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "failed to upgrade to websocket", "error", err)
			return
		}

		s := h.newSession(conn, year, awardType)
		slog.Info("session opened", "session_id", s.id, "year", year, "award_type", awardType)
		go s.writePump()
		go s.readPump()
	})
}

func (h *Handlers) newSession(conn *websocket.Conn, year int, awardType model.AwardType) *Session {
	ctx, cancel := context.WithCancel(h.sessions)
	s := &Session{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	s.changing = ui.NewChangeFlag(ui.ChangeFlagDelay, func() {
		s.push(s.stateFrame(s.root.State()))
	})
	s.root = ui.NewRootWithSelection(ctx, h.awards, year, awardType)
	unsubscribe := s.root.Subscribe(func(state ui.State) {
		s.push(s.stateFrame(state))
	})
	go func() {
		<-s.done
		unsubscribe()
	}()
	return s
}

func (s *Session) stateFrame(state ui.State) SessionFrame {
	slider := ui.NewYearSlider(state.Year).View()
	meta := model.Meta(state.Award)
	frame := SessionFrame{
		Type:       "state",
		SessionID:  s.id,
		State:      &state,
		Slider:     &slider,
		Colors:     &ui.Colors{Primary: meta.PrimaryColor, Secondary: meta.SecondaryColor},
		Icon:       meta.Icon,
		IsChanging: s.changing.IsSet(),
	}
	switch state.Phase {
	case ui.PhaseLoading:
		spinner := ui.NewSpinner(s.root.LoadingMessage(), state.Award)
		frame.Spinner = &spinner
	case ui.PhaseError:
		panel := ui.NewErrorPanel(state.Error)
		frame.ErrorPanel = &panel
	case ui.PhaseLoaded:
		frame.CreativeLabel = ui.CreativeLabel(state.Award)
	}
	return frame
}

// push queues a frame. Frames for a slow client are dropped rather than
// blocking the root.
func (s *Session) push(frame SessionFrame) {
	b, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to encode session frame", "session_id", s.id, "error", err)
		return
	}
	select {
	case <-s.done:
	case s.send <- b:
	default:
		slog.Warn("session send buffer full, dropping frame", "session_id", s.id)
	}
}

func (s *Session) pushError(message string) {
	s.push(SessionFrame{Type: "error", SessionID: s.id, Message: message})
}

// apply executes one client command against the root.
func (s *Session) apply(cmd SessionCommand) {
	slider := ui.NewYearSlider(s.root.Year())
	switch {
	case cmd.Year != nil:
		if !model.YearInRange(*cmd.Year) {
			s.pushError("year out of range")
			return
		}
		s.changing.Set()
		s.root.SetYear(*cmd.Year)
	case cmd.Award != nil:
		awardType, err := model.ParseAwardType(*cmd.Award)
		if err != nil {
			s.pushError(err.Error())
			return
		}
		s.root.SetAward(awardType)
	case cmd.Step == "next":
		if year, ok := slider.Increment(); ok {
			s.changing.Set()
			s.root.SetYear(year)
		}
	case cmd.Step == "prev":
		if year, ok := slider.Decrement(); ok {
			s.changing.Set()
			s.root.SetYear(year)
		}
	case cmd.Decade != nil:
		year := slider.JumpToDecade(*cmd.Decade)
		if !model.YearInRange(year) {
			s.pushError("year out of range")
			return
		}
		s.changing.Set()
		s.root.SetYear(year)
	case cmd.Retry:
		s.root.Retry()
	default:
		s.pushError("unknown command")
	}
}

func (s *Session) close() {
	s.closed.Do(func() {
		close(s.done)
		s.cancel()
		s.changing.Stop()
		_ = s.conn.Close()
		slog.Info("session closed", "session_id", s.id)
	})
}

func (s *Session) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("session read failed", "session_id", s.id, "error", err)
			}
			return
		}
		var cmd SessionCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			s.pushError("invalid message")
			continue
		}
		s.apply(cmd)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
