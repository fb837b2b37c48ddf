package playback

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/educast-cli/educast/log"
)

// EventCallback is the function signature for mpv event notifications.
type EventCallback func(property string, data interface{})

// EventListener provides real-time mpv event monitoring via observe_property.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
	}
}

// Start begins listening for mpv property change events.
// It sets up property observers and starts a dedicated read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	// Open the persistent connection for the event read loop first: mpv drops
	// a client's property observers when that client disconnects, so the
	// observe_property commands must be written on this same connection.
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	// Subscribe to property change events via IPC:
	// observe_property <id> <property> makes mpv notify on every change.
	properties := []struct {
		id   int
		name string
	}{
		{1, "time-pos"},    // position mirroring
		{2, "duration"},    // loaded-metadata analog
		{3, "pause"},       // native pause reconciliation
		{4, "eof-reached"}, // end-of-media detection
		{5, "fullscreen"},  // confirmed fullscreen transitions
	}

	for _, prop := range properties {
		payload, err := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", prop.id, prop.name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("marshal observe %s: %w", prop.name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s (observing: time-pos, duration, pause, eof-reached, fullscreen)", el.socketPath)
	return nil
}

// Stop terminates the event listener and detaches from the socket.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop continuously reads events from the persistent mpv connection.
// mpv sends newline-delimited JSON events when observed properties change.
func (el *EventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		// Set read deadline to avoid blocking forever
		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline") {
				continue // timeout is normal, keep listening
			}
			log.Warnf("event listener read error: %v", err)
			return
		}

		// mpv sends multiple JSON objects separated by newlines
		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// Last incomplete line goes to remainder for next read
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}

			el.processEvent(line)
		}
	}
}

// processEvent parses and dispatches a single mpv event JSON line.
func (el *EventListener) processEvent(line string) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return // Skip unparseable lines
	}

	// Property change events have "event": "property-change" and "name" + "data".
	if eventType, ok := event["event"].(string); ok {
		switch eventType {
		case "property-change":
			name, _ := event["name"].(string)
			data := event["data"]
			if name != "" && el.callback != nil {
				el.callback(name, data)
			}
		default:
			// Forward other events (e.g., "playback-restart", "end-file")
			if el.callback != nil {
				el.callback(eventType, event)
			}
		}
	}
}

// Attach wires an mpv surface's property events into a controller, returning
// the running listener. The caller must Stop the listener before closing the
// controller so no event mutates state after unmount.
func Attach(c *Controller, m *MPV) (*EventListener, error) {
	el := NewEventListener(m.Socket(), func(property string, data interface{}) {
		dispatch(c, property, data)
	})

	if err := el.Start(); err != nil {
		return nil, fmt.Errorf("attach event listener: %w", err)
	}

	return el, nil
}

// dispatch translates a single mpv property change into a controller event.
func dispatch(c *Controller, property string, data interface{}) {
	switch property {
	case "time-pos":
		if pos, ok := data.(float64); ok {
			c.HandleTimeUpdate(pos)
		}
	case "duration":
		if dur, ok := data.(float64); ok {
			c.HandleLoadedMetadata(dur)
		}
	case "pause":
		if paused, ok := data.(bool); ok {
			c.HandlePauseChange(paused)
		}
	case "eof-reached":
		if reached, ok := data.(bool); ok && reached {
			c.HandleEnded()
		}
	case "fullscreen":
		if on, ok := data.(bool); ok {
			c.HandleFullscreenChange(on)
		}
	case "end-file":
		// Broadcast fallback in case the eof-reached observer never fires.
		// Only natural completion counts; stop/quit/replace reasons do not.
		if event, ok := data.(map[string]interface{}); ok {
			if reason, _ := event["reason"].(string); reason == "eof" {
				c.HandleEnded()
			}
		}
	}
}
