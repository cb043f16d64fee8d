// Package main runs a demo WebSocket client that watches solver progress
// for one session. It creates a session, loads a tiny network, integrates
// two points and subscribes to the session event stream before solving.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

const demoNetwork = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {
        "type": "LineString",
        "coordinates": [[-74.10, 4.60], [-74.09, 4.60], [-74.08, 4.60]]
      }
    }
  ]
}`

type event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Create a session
	var sess struct {
		ID string `json:"id"`
	}
	postJSON(base+"/v1/sessions", nil, &sess)
	log.Printf("Session ID: %s", sess.ID)

	// Load network and integrate two points
	postJSON(base+"/v1/sessions/"+sess.ID+"/network",
		map[string]any{"geojson": json.RawMessage(demoNetwork)}, nil)
	postJSON(base+"/v1/sessions/"+sess.ID+"/points", map[string]any{
		"points": []map[string]any{
			{"id": "a", "at": map[string]float64{"lat": 4.601, "lon": -74.095}},
			{"id": "b", "at": map[string]float64{"lat": 4.599, "lon": -74.085}},
		},
	}, nil)

	// Connect to the event stream
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/sessions/" + sess.ID + "/events"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var evt event
			if err := c.ReadJSON(&evt); err != nil {
				log.Printf("read: %v", err)
				return
			}
			b, _ := json.Marshal(evt.Data)
			log.Printf("WS <- %s: %s", evt.Type, string(b))
		}
	}()

	// Solve; progress and completion events arrive on the socket
	time.Sleep(200 * time.Millisecond)
	postJSON(base+"/v1/sessions/"+sess.ID+"/solve",
		map[string]any{"algorithm": "held_karp"}, nil)

	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}

func postJSON(url string, body any, out any) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			log.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader([]byte("{}"))
	}
	resp, err := http.Post(url, "application/json", rd)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: %s", url, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatal(err)
		}
	}
}
