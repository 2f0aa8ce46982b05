package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/api/middleware"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/catalog"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/config"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/covers"
	database "github.com/surajroy7430/DB-Songs-Uploader/internal/db"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/staging"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
)

type Server struct {
	cfg     *config.Config
	db      *database.Client
	store   *storage.Client
	catalog *catalog.Service
	covers  *covers.Resolver
	staged  *staging.Store
	router  *gin.Engine
}

func New(cfg *config.Config, db *database.Client, store *storage.Client, staged *staging.Store) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:     cfg,
		db:      db,
		store:   store,
		catalog: catalog.New(db.DB, store, cfg.Catalog.PlayCountMin, cfg.Catalog.PlayCountMax, cfg.Catalog.ArtistDisplayLimit),
		covers:  covers.NewResolver(store),
		staged:  staged,
		router:  gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "songs-uploader"})
	})

	// Read surface
	s.router.GET("/songs", s.GetAllSongs)
	s.router.GET("/song/:id", s.GetSongByID)
	s.router.GET("/song_summary/:id", s.GetSongSummaryByID)
	s.router.GET("/album/:albumId", s.GetSongsByAlbum)
	s.router.GET("/artist/:artistId", s.GetSongsByArtist)
	s.router.GET("/artist/:artistId/albums", s.GetAlbumsByArtist)
	s.router.GET("/download/:id", s.GetDownloadLink)

	// Upload Workflow — guarded when an auth secret is configured
	mutating := s.router.Group("/")
	if s.cfg.Server.AuthSecret != "" {
		mutating.Use(middleware.RequireAuth([]byte(s.cfg.Server.AuthSecret)))
	}
	mutating.POST("/preview", s.PreviewUpload)
	mutating.POST("/save", s.SaveSong)
	mutating.DELETE("/delete_song/:id", s.DeleteSong)
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine for handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}
