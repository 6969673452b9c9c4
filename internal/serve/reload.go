package serve

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ReloadPath is the websocket endpoint browsers connect to.
const ReloadPath = "/_tagtree/reload"

// ReloadMessageType is the type of a reload message.
type ReloadMessageType string

const (
	ReloadTypeFull  ReloadMessageType = "reload"
	ReloadTypeError ReloadMessageType = "error"
	ReloadTypeClear ReloadMessageType = "clear"
)

// ReloadMessage is sent to browsers via WebSocket.
type ReloadMessage struct {
	Type  ReloadMessageType `json:"type"`
	Error string            `json:"error,omitempty"`
	Build int               `json:"build,omitempty"`
}

// ReloadServer tracks live reload connections and broadcasts rebuild
// results to them.
type ReloadServer struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// onCount is called with the client count after every change to it.
	onCount func(int)
}

// NewReloadServer creates a new reload server.
func NewReloadServer(logger *slog.Logger) *ReloadServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadServer{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The preview server is a local tool; any page may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket upgrades the request and holds the connection until the
// client goes away.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Debug("reload upgrade failed", "error", err)
		return
	}

	r.mu.Lock()
	r.clients[conn] = true
	n := len(r.clients)
	r.mu.Unlock()
	r.countChanged(n)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.remove(conn)
}

// NotifyReload tells every client that build produced a new render.
func (r *ReloadServer) NotifyReload(build int) {
	r.broadcast(ReloadMessage{Type: ReloadTypeFull, Build: build})
}

// NotifyError tells every client that a rebuild failed.
func (r *ReloadServer) NotifyError(errMsg string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeError, Error: errMsg})
}

// ClearError clears the error overlay on all clients.
func (r *ReloadServer) ClearError() {
	r.broadcast(ReloadMessage{Type: ReloadTypeClear})
}

func (r *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}
	r.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			r.logger.Debug("dropping reload client", "error", err)
			r.remove(client)
		}
	}
}

func (r *ReloadServer) remove(conn *websocket.Conn) {
	r.mu.Lock()
	_, ok := r.clients[conn]
	delete(r.clients, conn)
	n := len(r.clients)
	r.mu.Unlock()

	conn.Close()
	if ok {
		r.countChanged(n)
	}
}

func (r *ReloadServer) countChanged(n int) {
	if r.onCount != nil {
		r.onCount(n)
	}
}

// ClientCount returns the number of connected clients.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	for client := range r.clients {
		client.Close()
		delete(r.clients, client)
	}
	r.mu.Unlock()
	r.countChanged(0)
}

// ClientScript is appended to HTML previews when live reload is on.
const ClientScript = `<script>
(function() {
	var delay = 1000;
	function connect() {
		var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
		var ws = new WebSocket(proto + '//' + location.host + '` + ReloadPath + `');
		ws.onopen = function() { delay = 1000; clearOverlay(); };
		ws.onmessage = function(e) {
			var msg;
			try { msg = JSON.parse(e.data); } catch (err) { return; }
			if (msg.type === 'reload') { location.reload(); }
			else if (msg.type === 'error') { showOverlay(msg.error); }
			else if (msg.type === 'clear') { clearOverlay(); }
		};
		ws.onclose = function() {
			setTimeout(function() { delay = Math.min(delay * 2, 30000); connect(); }, delay);
		};
	}
	function showOverlay(text) {
		clearOverlay();
		var pre = document.createElement('pre');
		pre.id = 'tagtree-error';
		pre.style.cssText = 'position:fixed;inset:0;margin:0;padding:20px;background:rgba(0,0,0,.9);color:#f55;white-space:pre-wrap;z-index:999999;';
		pre.textContent = 'Rebuild failed; showing the last good render.\n\n' + text;
		document.body.appendChild(pre);
	}
	function clearOverlay() {
		var el = document.getElementById('tagtree-error');
		if (el) { el.remove(); }
	}
	connect();
})();
</script>
`
