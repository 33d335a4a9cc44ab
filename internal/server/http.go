package server

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/denisschmidt/songvault/config"
	"github.com/denisschmidt/songvault/internal/blob"
	"github.com/denisschmidt/songvault/internal/middleware"
	"github.com/denisschmidt/songvault/internal/stats"
	"github.com/denisschmidt/songvault/internal/store"
	"github.com/gin-gonic/contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine *gin.Engine
	config *config.Config
	stat   *stats.Statistic
}

type handlers struct {
	catalog  store.Store
	blobs    *blob.Store
	stat     *stats.Statistic
	fillTags bool
}

// New builds the HTTP API over an already connected catalog and blob store
func New(config *config.Config, catalog store.Store, blobs *blob.Store) (*Server, error) {
	if catalog == nil || blobs == nil {
		return nil, errors.New("catalog and blob store are required")
	}
	server := &Server{
		config: config,
	}
	server.init(catalog, blobs)
	return server, nil
}

func (s *Server) init(catalog store.Store, blobs *blob.Store) {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = s.config.MaxUploadMemory

	h := &handlers{
		catalog:  catalog,
		blobs:    blobs,
		fillTags: s.config.Options.FillTags,
	}

	// gin only applies middleware to routes registered after it
	if s.config.Options.EnableStats {
		s.stat = stats.NewStatistic()
		h.stat = s.stat

		router.Use(func(c *gin.Context) {
			startTime := time.Now()
			c.Next()
			s.stat.Record(startTime, c.Writer.Status(), c.Writer.Size())
		})
	}

	if s.config.Options.ForceHTTPS {
		router.Use(middleware.UpgradeToHttps())
	}

	if len(s.config.AllowedOrigins) > 0 {
		allowAllOrigins := len(s.config.AllowedOrigins) == 1 && s.config.AllowedOrigins[0] == "*"
		allowedOrigins := s.config.AllowedOrigins
		if allowAllOrigins {
			allowedOrigins = nil
		}

		router.Use(cors.New(cors.Config{
			AllowAllOrigins: allowAllOrigins,
			AllowedOrigins:  allowedOrigins,
			AllowedMethods:  s.config.AllowedMethods,
			AllowedHeaders:  s.config.AllowedHeaders,
		}))
	}

	router.GET("/healthcheck", h.healthCheck(time.Now().UTC()))

	if s.stat != nil {
		router.GET("/sys/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.stat.GatherData())
		})
	}

	if s.config.Options.EnableHealth {
		restrictIPAddresses := RestrictIPAddresses(s.config.Options.AllowedIPAddresses)
		router.GET("/sys/health", restrictIPAddresses, gin.WrapH(expvar.Handler()))
		router.GET("/sys/info", restrictIPAddresses, h.sysStats())
	}

	songs := router.Group("/api/songs")
	{
		songs.POST("/upload", h.songUpload())
		songs.GET("", h.songList())
		songs.GET("/play/:id", h.songPlay())
	}

	s.engine = router
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	defer s.close()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Print("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) close() {
	if s.stat != nil {
		s.stat.Close()
	}
}
