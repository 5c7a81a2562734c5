package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/domainlens/domainlens/pkg/engine"
)

const (
	progressWriteWait = 10 * time.Second
	progressPongWait  = 60 * time.Second
	progressPingEvery = (progressPongWait * 9) / 10
)

type progressOutbound struct {
	Type    string  `json:"type"`
	Stage   string  `json:"stage,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// handleProgress upgrades to a websocket connection, runs Analyze against
// the project named by the "project" query parameter, and pushes one
// "stage" message per completed pipeline stage followed by a single "done"
// or "error" message.
func (s *Server) handleProgress(c *gin.Context) {
	project := c.Query("project")
	if project == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing project query parameter"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(progressPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(progressPongWait))
	})

	writeCh := make(chan progressOutbound, 16)
	done := make(chan struct{})
	go s.writeProgress(conn, writeCh, done)

	ctx := engine.WithProgress(c.Request.Context(), func(stage string, elapsed time.Duration) {
		select {
		case writeCh <- progressOutbound{Type: "stage", Stage: stage, Seconds: elapsed.Seconds()}:
		default:
			// writer is backed up; drop the event rather than block the pipeline
		}
	})

	_, err = s.engine.Analyze(ctx, project)
	if err != nil {
		writeCh <- progressOutbound{Type: "error", Error: err.Error()}
	} else {
		writeCh <- progressOutbound{Type: "done"}
	}
	close(writeCh)
	<-done
}

func (s *Server) writeProgress(conn *websocket.Conn, writeCh <-chan progressOutbound, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(progressPingEvery)
	defer ticker.Stop()

	for {
		select {
		case out, ok := <-writeCh:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(progressWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(out); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(progressWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
