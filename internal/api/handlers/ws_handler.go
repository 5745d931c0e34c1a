package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/services"
)

// maxWSImageBytes bounds one decoded image_base64 payload.
const maxWSImageBytes = 10 << 20

const (
	// wsReadLimit fits one base64 image plus the JSON envelope.
	wsReadLimit = maxWSImageBytes*4/3 + 4096
	wsReadWait  = 120 * time.Second
)

type WSHandler struct {
	pipeline services.PipelineService
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler accepts upgrades from allowedOrigin only; an empty origin
// accepts any.
func NewWSHandler(pipeline services.PipelineService, allowedOrigin string, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		pipeline: pipeline,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

type wsClientMsg struct {
	Type        string              `json:"type"`
	Mode        string              `json:"mode"`
	Lang        string              `json:"lang"`
	Profile     *models.UserProfile `json:"profile"`
	ImageBase64 string              `json:"image_base64"`
}

type wsServerMsg struct {
	Type      string `json:"type"`
	Stage     string `json:"stage,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Lang      string `json:"lang,omitempty"`
	Analysis  string `json:"analysis,omitempty"`
	Error     string `json:"error,omitempty"`
	AttemptID string `json:"attempt_id,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v wsServerMsg) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

// Analyze streams pipeline progress over a WebSocket. Requests on one
// connection run one at a time.
func (h *WSHandler) Analyze(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	userID := "ws:" + uuid.NewString()
	ctx := context.WithoutCancel(c.Request.Context())

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadWait))
	})

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Error: "invalid json"})
			continue
		}
		if msg.Type != "analyze" {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Error: "unknown message type"})
			continue
		}
		h.analyze(ctx, wc, userID, msg)
		_ = conn.SetReadDeadline(time.Now().Add(wsReadWait))
	}
}

func (h *WSHandler) analyze(ctx context.Context, wc *wsConn, userID string, msg wsClientMsg) {
	img, err := decodeImage(msg.ImageBase64)
	if err != nil {
		_ = wc.writeJSON(wsServerMsg{Type: "error", Error: "image_base64 is missing or invalid"})
		return
	}
	mode := models.ModeQuick
	if msg.Mode != "" {
		m, ok := models.ParseAnalysisMode(msg.Mode)
		if !ok {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Error: "unknown analysis mode"})
			return
		}
		mode = m
	}
	var profile *models.UserProfile
	if msg.Profile != nil {
		p := msg.Profile.Sanitized()
		if !p.IsZero() {
			profile = &p
		}
	}

	_, err = h.pipeline.Execute(ctx, services.Job{
		UserID:    userID,
		Mode:      mode,
		Language:  models.NormalizeLanguage(msg.Lang),
		Profile:   profile,
		Source:    bytesSource(img),
		MediaRef:  "ws",
		Delivery:  &wsDelivery{conn: wc},
		Ephemeral: true,
	})
	if err != nil {
		h.log.WithField("user_id", userID).WithError(err).Debug("ws analysis failed")
	}
}

func decodeImage(s string) ([]byte, error) {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	if s == "" || base64.StdEncoding.DecodedLen(len(s)) > maxWSImageBytes {
		return nil, errInvalidImage
	}
	return base64.StdEncoding.DecodeString(s)
}

var errInvalidImage = errors.New("invalid image")

type bytesSource []byte

func (b bytesSource) Fetch(_ context.Context, _ string, w io.Writer) error {
	_, err := w.Write(b)
	return err
}

// wsDelivery turns pipeline callbacks into WebSocket events.
type wsDelivery struct {
	conn *wsConn
}

func (d *wsDelivery) Progress(_ context.Context, stage models.PipelineStage, _ models.Language) error {
	return d.conn.writeJSON(wsServerMsg{Type: "status", Stage: string(stage)})
}

func (d *wsDelivery) Text(_ context.Context, res services.Result) error {
	return d.conn.writeJSON(wsServerMsg{
		Type:     "result",
		Mode:     string(res.Mode),
		Lang:     string(res.Language),
		Analysis: res.Text,
	})
}

func (d *wsDelivery) Audio(context.Context, services.Result, string) error { return nil }

func (d *wsDelivery) Failure(_ context.Context, f services.Failure) error {
	return d.conn.writeJSON(wsServerMsg{
		Type:      "error",
		Stage:     string(f.Stage),
		Error:     analyzeFailed,
		AttemptID: f.AttemptID,
	})
}
