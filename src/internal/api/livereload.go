package api

import (
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local dev tool, any origin may connect
	},
}

// handleLiveReload upgrades the connection and streams reload events as JSON
// until the client goes away or the hub shuts down.
func (a *Api) handleLiveReload(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Debugf("Livereload upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := a.hub.Subscribe()
	defer cancel()

	logrus.WithField("remote", r.RemoteAddr).Debug("Livereload client connected")

	// Drain incoming frames so close and ping frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

const livereloadScript = `(() => {
  const connect = () => {
    const ws = new WebSocket("ws://" + location.host + "/livereload");
    ws.onmessage = () => location.reload();
    ws.onclose = () => setTimeout(connect, 1000);
  };
  connect();
})();
`

func (a *Api) handleLiveReloadScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "no-store")
	io.WriteString(w, livereloadScript)
}
