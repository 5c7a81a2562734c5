package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/domainlens/domainlens/pkg/engine"
)

func TestHandleProgress_StreamsStagesThenDone(t *testing.T) {
	dir := writeProject(t)
	srv := NewServer(engine.New())
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/progress?project=" + dir
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var sawStage, sawDone bool
	for i := 0; i < 32 && !sawDone; i++ {
		var out progressOutbound
		if err := conn.ReadJSON(&out); err != nil {
			break
		}
		switch out.Type {
		case "stage":
			sawStage = true
		case "done":
			sawDone = true
		}
	}

	require.True(t, sawStage)
	require.True(t, sawDone)
}

func TestHandleProgress_MissingProjectIsBadRequest(t *testing.T) {
	srv := NewServer(engine.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/v1/progress", nil)
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
