package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/realtime"
	"github.com/camden-git/astrogallery/routes"
	"github.com/camden-git/astrogallery/session"
	"github.com/camden-git/astrogallery/viewer"
)

// writeWait bounds a single websocket write so a peer that stopped reading
// cannot pin the writer.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Shell message types.
const (
	msgNavigate = "navigate"
	msgSearch   = "search"
	msgViewer   = "viewer"

	msgLoading  = "loading"
	msgSnapshot = "snapshot"
	msgError    = "error"
)

// shellRequest is the incoming WebSocket message format.
type shellRequest struct {
	Type  string        `json:"type"` // "navigate", "search" or "viewer"
	Path  string        `json:"path,omitempty"`
	Query string        `json:"query,omitempty"`
	Term  string        `json:"term,omitempty"`
	Event *viewer.Event `json:"event,omitempty"`
}

// shellResponse is the outgoing WebSocket message format.
type shellResponse struct {
	Type     string            `json:"type"` // "loading", "snapshot" or "error"
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// ShellHandler runs one app shell session per websocket connection. Hub
// events (thumbnail notifications) are interleaved with the session's own
// replies.
type ShellHandler struct {
	Source  session.IndexSource
	Router  routes.Router
	Hub     *realtime.Hub
	Metrics metrics.Recorder
}

func (sh *ShellHandler) recorder() metrics.Recorder {
	if sh.Metrics == nil {
		return metrics.Nop{}
	}
	return sh.Metrics
}

// ServeWS handles GET /ws/shell
func (sh *ShellHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("shell: websocket upgrade: %v", err)
		return
	}

	client := realtime.NewClient(64)
	if sh.Hub != nil {
		sh.Hub.Register(client)
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		// the hub closes slow clients; hanging up here ends the read loop too
		defer conn.Close()
		for msg := range client.Messages() {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("shell: websocket write: %v", err)
				return
			}
		}
	}()

	rec := sh.recorder()
	shell := session.New(sh.Source, sh.Router, nil)
	rec.ShellOpened()
	log.Printf("shell %s: opened", shell.ID)

	defer func() {
		shell.Close()
		rec.ShellClosed()
		if sh.Hub != nil {
			sh.Hub.Unregister(client)
		} else {
			client.Close()
		}
		<-writerDone
		conn.Close()
		log.Printf("shell %s: closed", shell.ID)
	}()

	ctx := r.Context()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("shell %s: websocket read: %v", shell.ID, err)
			}
			return
		}

		var req shellRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sh.send(conn, client, shellResponse{Type: msgError, Error: "invalid message format"})
			continue
		}

		switch req.Type {
		case msgNavigate:
			path, query := req.Path, req.Query
			if p, q, ok := strings.Cut(path, "?"); ok && query == "" {
				path, query = p, q
			}
			snap := shell.Navigate(ctx, path, query, func(loading session.Snapshot) {
				sh.send(conn, client, shellResponse{Type: msgLoading, Snapshot: &loading})
			})
			if snap.Detail != nil {
				rec.RecordDetail(string(snap.Detail.Status))
			}
			sh.send(conn, client, shellResponse{Type: msgSnapshot, Snapshot: &snap})
		case msgSearch:
			snap := shell.Search(req.Term)
			if snap.Gallery != nil {
				rec.RecordSearch(len(snap.Gallery.Items))
			}
			sh.send(conn, client, shellResponse{Type: msgSnapshot, Snapshot: &snap})
		case msgViewer:
			if req.Event == nil || !req.Event.Kind.Known() {
				sh.send(conn, client, shellResponse{Type: msgError, Error: "unknown viewer event"})
				continue
			}
			snap := shell.Dispatch(*req.Event)
			sh.send(conn, client, shellResponse{Type: msgSnapshot, Snapshot: &snap})
		default:
			sh.send(conn, client, shellResponse{Type: msgError, Error: "unknown message type: " + req.Type})
		}
	}
}

// send queues resp for the writer. A reply that cannot be queued would leave
// the page rendering stale state, so the connection is closed instead and the
// page reconnects with a fresh session.
func (sh *ShellHandler) send(conn *websocket.Conn, client *realtime.Client, resp shellResponse) {
	encoded, err := json.Marshal(resp)
	if err != nil {
		log.Printf("shell: failed to marshal %s message: %v", resp.Type, err)
		return
	}
	if !client.Send(encoded) {
		log.Printf("shell: cannot deliver %s message, closing connection", resp.Type)
		client.Close()
		conn.Close()
	}
}
