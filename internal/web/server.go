// Package web serves the HTTP control API and mirrors rendered frames to
// browsers over a websocket.
package web

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	apppkg "github.com/guidoenr/spectra/internal/app"
	"github.com/guidoenr/spectra/internal/params"
)

//go:embed index.html
var indexHTML []byte

const (
	defaultMirrorInterval = 100 * time.Millisecond
	defaultJPEGQuality    = 70
	statusInterval        = 500 * time.Millisecond
	clientQueue           = 8
)

// AppInterface is what the server needs from the running application.
type AppInterface interface {
	Status() apppkg.Status
	Send(c apppkg.Control) bool
	TargetFPS() float64
}

// Options configures a Server. Zero values pick defaults.
type Options struct {
	ConfigPath     string
	Defaults       SavedConfig
	MirrorInterval time.Duration
	JPEGQuality    int
	Log            *log.Logger
}

// Server owns the HTTP handlers and the websocket clients.
type Server struct {
	app      AppInterface
	opts     Options
	log      *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocketClient]bool
	nclient atomic.Int32

	frames    chan *image.RGBA
	spare     chan *image.RGBA
	lastOffer time.Time
}

type websocketClient struct {
	conn   *websocket.Conn
	send   chan message
	server *Server
}

type message struct {
	kind int
	data []byte
}

// UpdateRequest changes the active mode and hue shift. Absent fields are
// left alone.
type UpdateRequest struct {
	Mode     *string `json:"mode,omitempty"`
	HueShift *int    `json:"hueShift,omitempty"`
}

// SavedConfig is the JSON file written by /api/save and read at startup.
type SavedConfig struct {
	Mode     string  `json:"mode"`
	HueShift int     `json:"hueShift"`
	FPS      float64 `json:"fps"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FFTSize  int     `json:"fftSize"`
	Display  string  `json:"display,omitempty"`
}

// NewServer builds a server for app.
func NewServer(app AppInterface, opts Options) *Server {
	if opts.MirrorInterval < 0 {
		opts.MirrorInterval = 0
	} else if opts.MirrorInterval == 0 {
		opts.MirrorInterval = defaultMirrorInterval
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = defaultJPEGQuality
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = DefaultConfigPath()
	}
	if opts.Log == nil {
		opts.Log = log.New(os.Stderr, "[web] ", log.LstdFlags)
	}
	return &Server{
		app:     app,
		opts:    opts,
		log:     opts.Log,
		clients: make(map[*websocketClient]bool),
		frames:  make(chan *image.RGBA, 1),
		spare:   make(chan *image.RGBA, 1),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Attach sets the application when it is built after the server, which is
// the case when the server is also the app's frame mirror. Call it before Start.
func (s *Server) Attach(app AppInterface) { s.app = app }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/modes", s.handleModes)
	mux.HandleFunc("/api/update", s.handleUpdate)
	mux.HandleFunc("/api/save", s.handleSave)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start serves on port until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.encodeLoop(ctx)
	go s.statusLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Printf("server starting on http://0.0.0.0%s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Offer queues a copy of frame for the mirror. It is called from the render
// loop, so it never blocks: frames are dropped when nobody watches, when
// the throttle interval has not passed or when the encoder is busy.
func (s *Server) Offer(frame *image.RGBA) {
	if s.nclient.Load() == 0 {
		return
	}
	now := time.Now()
	if now.Sub(s.lastOffer) < s.opts.MirrorInterval {
		return
	}

	var buf *image.RGBA
	select {
	case buf = <-s.spare:
	default:
	}
	if buf == nil || buf.Rect != frame.Rect {
		buf = image.NewRGBA(frame.Rect)
	}
	copy(buf.Pix, frame.Pix)

	select {
	case s.frames <- buf:
		s.lastOffer = now
	default:
		s.recycle(buf)
	}
}

func (s *Server) recycle(img *image.RGBA) {
	select {
	case s.spare <- img:
	default:
	}
}

func (s *Server) encodeLoop(ctx context.Context) {
	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return
		case img := <-s.frames:
			buf.Reset()
			err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.opts.JPEGQuality})
			s.recycle(img)
			if err != nil {
				s.log.Printf("encode frame: %v", err)
				continue
			}
			s.broadcast(message{kind: websocket.BinaryMessage, data: append([]byte(nil), buf.Bytes()...)})
		}
	}
}

func (s *Server) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.nclient.Load() == 0 {
				continue
			}
			data, err := json.Marshal(s.app.Status())
			if err != nil {
				continue
			}
			s.broadcast(message{kind: websocket.TextMessage, data: data})
		}
	}
}

// broadcast hands msg to every client; a client whose queue is full misses it.
func (s *Server) broadcast(msg message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		select {
		case client.send <- msg:
		default:
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.app.Status())
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, params.ModeNames())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var controls []apppkg.Control
	if req.Mode != nil {
		mode, err := params.ParseMode(*req.Mode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		controls = append(controls, apppkg.Control{Kind: apppkg.ControlSetMode, Mode: mode})
	}
	if req.HueShift != nil {
		controls = append(controls, apppkg.Control{Kind: apppkg.ControlSetHue, Hue: *req.HueShift})
	}
	for _, c := range controls {
		if !s.app.Send(c) {
			http.Error(w, "control queue full", http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.app.Status()
	config := s.opts.Defaults
	config.Mode = st.Mode
	config.HueShift = st.HueShift
	config.FPS = s.app.TargetFPS()
	if st.Width > 0 && st.Height > 0 {
		config.Width, config.Height = st.Width, st.Height
	}

	var req SavedConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		config = mergeConfig(config, req)
	}

	if err := SaveConfig(s.opts.ConfigPath, config); err != nil {
		http.Error(w, fmt.Sprintf("failed to save config: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "saved", "path": s.opts.ConfigPath})
}

// mergeConfig overrides base with the non-zero fields of req.
func mergeConfig(base, req SavedConfig) SavedConfig {
	if req.Mode != "" {
		if m, err := params.ParseMode(req.Mode); err == nil {
			base.Mode = m.String()
		}
	}
	if req.HueShift != 0 {
		base.HueShift = params.NormalizeHue(req.HueShift)
	}
	if req.FPS > 0 {
		base.FPS = req.FPS
	}
	if req.Width > 0 {
		base.Width = req.Width
	}
	if req.Height > 0 {
		base.Height = req.Height
	}
	if req.FFTSize > 0 {
		base.FFTSize = req.FFTSize
	}
	if req.Display != "" {
		base.Display = strings.ToLower(req.Display)
	}
	return base
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := &websocketClient{
		conn:   conn,
		send:   make(chan message, clientQueue),
		server: s,
	}
	s.mu.Lock()
	s.clients[client] = true
	s.nclient.Store(int32(len(s.clients)))
	s.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

func (s *Server) removeClient(c *websocketClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
		s.nclient.Store(int32(len(s.clients)))
	}
}

func (c *websocketClient) readPump() {
	defer func() {
		c.server.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *websocketClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
