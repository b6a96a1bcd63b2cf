package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core"
	"github.com/wsb360/aiclassify/internal/driver"
	"github.com/wsb360/aiclassify/internal/index"
	"github.com/wsb360/aiclassify/internal/llm"
	"github.com/wsb360/aiclassify/internal/taxonomy"
)

type Server struct {
	Engine *core.Engine
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults with env overrides", cfgPath, err)
		cfg = config.Default()
	}

	applyEnvOverrides(cfg)

	source, err := taxonomy.NewMySQLSource(cfg.MySQL)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}

	d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, cfg.Memgraph.IndexName, cfg.Memgraph.Dimension)
	if err != nil {
		log.Fatalf("Failed to connect to Memgraph: %v", err)
	}

	llmClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	idx := index.NewMemgraphIndex(d, embedderClient, cfg.Memgraph.IndexName)

	engine := core.NewEngine(context.Background(), source, llmClient, idx, cfg)

	return &Server{Engine: engine}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_EMBEDDING_BASE_URL"); v != "" {
		cfg.LLM.EmbeddingBaseURL = v
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		cfg.MySQL.Host = v
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		cfg.MySQL.User = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("MYSQL_DATABASE"); v != "" {
		cfg.MySQL.Database = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		cfg.Memgraph.URI = v
	}
	if v := os.Getenv("MEMGRAPH_USER"); v != "" {
		cfg.Memgraph.User = v
	}
	if v := os.Getenv("MEMGRAPH_PASSWORD"); v != "" {
		cfg.Memgraph.Password = v
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(requestID())

	r.GET("/healthz", s.Health)
	r.POST("/classify", s.Classify)
	r.POST("/taxonomy/refresh", s.RefreshTaxonomy)

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"categories": s.Engine.Tree().Size(),
	})
}

type ClassifyRequest struct {
	FilePaths []string `json:"file_paths"`
	Fused     bool     `json:"fused"`
}

func (s *Server) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if len(req.FilePaths) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_paths is required"})
		return
	}

	results := s.Engine.ClassifyBatch(c.Request.Context(), req.FilePaths, req.Fused)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) RefreshTaxonomy(c *gin.Context) {
	if err := s.Engine.RefreshTaxonomy(c.Request.Context()); err != nil {
		log.Printf("Failed to refresh taxonomy: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh taxonomy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "refreshed",
		"categories": s.Engine.Tree().Size(),
	})
}
