// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
)

// TrackInfo is the JSON form of a track.
type TrackInfo struct {
	Id          string `json:"id"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	TrackNumber int    `json:"trackNumber"`
	Duration    int    `json:"duration"`
}

// StatusMessage is returned by /api/status and streamed over /api/ws.
type StatusMessage struct {
	Type      string     `json:"type"`
	State     string     `json:"state"`
	Track     *TrackInfo `json:"track,omitempty"`
	Position  float64    `json:"position"`
	Volume    int        `json:"volume"`
	Timestamp time.Time  `json:"timestamp"`
}

func trackInfo(t TrackInterface) *TrackInfo {
	if t == nil || !t.IsValid() {
		return nil
	}
	return &TrackInfo{
		Id:          t.GetId(),
		Path:        t.GetPath(),
		Title:       t.GetTitle(),
		Artist:      t.GetArtist(),
		Album:       t.GetAlbum(),
		TrackNumber: t.GetTrackNumber(),
		Duration:    t.GetDuration(),
	}
}

// HttpServer is the HTTP/websocket remote control.
type HttpServer struct {
	player  ControlledPlayer
	logger  logger.LoggerInterface
	hub     *Hub
	router  *gin.Engine
	server  *http.Server
	version string
}

// NewHttpServer builds the router. An empty origins list allows any origin.
func NewHttpServer(player ControlledPlayer, origins []string, version string, logger logger.LoggerInterface) *HttpServer {
	s := &HttpServer{
		player:  player,
		logger:  logger,
		version: version,
	}

	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}

	s.hub = NewHub(originChecker(origins), logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.logRequests())
	r.Use(cors.New(config))
	s.setupRoutes(r)
	s.router = r
	s.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return func(r *http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

func (s *HttpServer) setupRoutes(r *gin.Engine) {
	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/status", s.status)
		api.GET("/tracks", s.tracks)
		api.GET("/artwork", s.artwork)
		api.GET("/ws", s.websocket)

		api.POST("/play", s.control(s.player.Play))
		api.POST("/pause", s.control(s.player.Pause))
		api.POST("/toggle", s.control(s.player.TogglePlayPause))
		api.POST("/next", s.control(s.player.NextTrack))
		api.POST("/stop", s.control(s.player.Stop))
		api.POST("/seek", s.seek)
		api.POST("/volume", s.volume)
	}
}

func (s *HttpServer) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until Shutdown is called or the listener fails.
func (s *HttpServer) ListenAndServe(addr string) error {
	s.server.Addr = addr
	s.logger.Printf("http: listening on %s", addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}

// BroadcastStatus pushes the current status to websocket clients, tagged
// with the event that caused it.
func (s *HttpServer) BroadcastStatus(event string) {
	s.hub.Broadcast(s.snapshot(event))
}

func (s *HttpServer) snapshot(event string) StatusMessage {
	return StatusMessage{
		Type:      event,
		State:     s.player.StateName(),
		Track:     trackInfo(s.player.CurrentTrack()),
		Position:  s.player.GetTimePos(),
		Volume:    s.player.GetVolume(),
		Timestamp: time.Now(),
	}
}

func (s *HttpServer) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Printf("http: %s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

func (s *HttpServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "smp",
		"version":   s.version,
		"timestamp": time.Now().Unix(),
	})
}

func (s *HttpServer) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshot("status"))
}

func (s *HttpServer) tracks(c *gin.Context) {
	tracks := s.player.Tracks()
	out := make([]*TrackInfo, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, trackInfo(t))
	}
	c.JSON(http.StatusOK, gin.H{"tracks": out, "count": len(out)})
}

// artwork serves the current track's artwork, or that of ?id=.
func (s *HttpServer) artwork(c *gin.Context) {
	var track TrackInterface
	if id := c.Query("id"); id != "" {
		for _, t := range s.player.Tracks() {
			if t.GetId() == id {
				track = t
				break
			}
		}
		// the current track may have been dropped from the library
		if cur := s.player.CurrentTrack(); track == nil && cur != nil && cur.GetId() == id {
			track = cur
		}
		if track == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown track"})
			return
		}
	} else {
		track = s.player.CurrentTrack()
	}

	if track == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no track loaded"})
		return
	}
	data, mime := track.GetArtwork()
	c.Data(http.StatusOK, mime, data)
}

func (s *HttpServer) websocket(c *gin.Context) {
	if err := s.hub.Serve(c.Writer, c.Request, s.snapshot("status")); err != nil {
		s.logger.PrintError("ws upgrade", err)
	}
}

func (s *HttpServer) control(action func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := action(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, s.snapshot("status"))
	}
}

func (s *HttpServer) seek(c *gin.Context) {
	position, err := strconv.ParseFloat(c.Query("position"), 64)
	if err != nil || math.IsNaN(position) || math.IsInf(position, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position must be a number of seconds"})
		return
	}
	s.control(func() error { return s.player.SeekAbsolute(position) })(c)
}

func (s *HttpServer) volume(c *gin.Context) {
	percent, err := strconv.Atoi(c.Query("percent"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "percent must be an integer"})
		return
	}
	s.control(func() error { return s.player.SetVolume(percent) })(c)
}
