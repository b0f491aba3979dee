// Package server servidor HTTP do simulador
package server

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/Batatao343/buser-simulador/internal/api/v1"
	"github.com/Batatao343/buser-simulador/internal/config"
	"github.com/Batatao343/buser-simulador/internal/store"
)

//go:embed all:dist
var staticFiles embed.FS

// Server servidor HTTP
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *v1.Handler
}

// NewServer cria o servidor e abre o banco
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "simulador.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Falha ao inicializar o banco de dados: %v", err)
	}

	apiHandler := v1.NewHandler(sqliteStore, cfg)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    apiHandler,
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes monta as rotas da API, das métricas e do frontend
func (s *Server) setupRoutes(devMode bool) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	s.router.Use(cors.New(corsConfig))

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if devMode {
		// Modo dev: redireciona para o servidor de desenvolvimento do frontend
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		sub, _ := fs.Sub(staticFiles, "dist")

		s.router.GET("/", func(c *gin.Context) {
			data, _ := fs.ReadFile(sub, "index.html")
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})

		// Fallback de SPA
		s.router.NoRoute(func(c *gin.Context) {
			data, _ := fs.ReadFile(sub, "index.html")
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})
	}
}

// Run inicia o servidor
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close encerra o banco de dados
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore acesso ao armazenamento (usado em testes)
func (s *Server) GetStore() *store.Store {
	return s.store
}
