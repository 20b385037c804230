package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/gorilla/websocket"
)

// Connects to a project's live board socket and prints every event until
// interrupted or the server closes the stream.
func main() {
	base := flag.String("url", "ws://127.0.0.1:8080", "server base url")
	token := flag.String("token", os.Getenv("TOKEN"), "bearer token")
	projectID := flag.String("project", "", "project id to watch")
	timeout := flag.Duration("timeout", 0, "stop after this long (0 waits forever)")
	flag.Parse()

	if *token == "" || *projectID == "" {
		logger.Fatal("token and project are required")
	}

	u := strings.TrimRight(*base, "/") + "/ws/projects/" + url.PathEscape(*projectID)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+*token)

	// use 127.0.0.1 in the default url to prefer IPv4
	conn, resp, err := websocket.DefaultDialer.Dial(u, header)
	if err != nil {
		if resp != nil {
			logger.Fatal("dial failed", "error", err, "status", resp.StatusCode)
		}
		logger.Fatal("dial failed", "error", err)
	}
	defer conn.Close()

	logger.Info("watching board", "project_id", *projectID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Info("stream closed", "error", err)
				return
			}
			var ev domain.Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				logger.Warn("unexpected frame", "body", string(msg))
				continue
			}
			fmt.Printf("%s %s %s\n", time.Now().Format(time.RFC3339), ev.Type, ev.ProjectID)
			if ev.Type == domain.EventProjectDeleted {
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	var deadline <-chan time.Time
	if *timeout > 0 {
		deadline = time.After(*timeout)
	}

	select {
	case <-done:
	case <-quit:
	case <-deadline:
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	logger.Info("watcher finished")
}
