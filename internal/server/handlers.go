package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personagen/internal/batch"
	"personagen/internal/provider"
	"personagen/internal/store"
	"personagen/internal/types"
)

// generateParams holds the parsed /generate query string.
type generateParams struct {
	Description string
	Artifacts   int
	DB          string
	Categories  []string
	Model       string
	Temperature float64
	Seed        *int64
	Output      string
}

const maxRequestArtifacts = 100

func (s *Server) parseGenerateParams(c *gin.Context) (generateParams, string) {
	p := generateParams{
		Description: strings.TrimSpace(c.Query("description")),
		Artifacts:   5,
		DB:          s.cfg.Storage.DatabasePath,
		Model:       s.cfg.Provider.Model,
		Temperature: 0.75,
		Output:      c.Query("output"),
	}

	if v := c.Query("artifacts"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, "artifacts must be an integer"
		}
		p.Artifacts = n
	}
	if v := c.Query("db"); v != "" {
		p.DB = v
	}
	if v := c.Query("model"); v != "" {
		p.Model = v
	}
	if v := c.Query("temperature"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, "temperature must be a number"
		}
		p.Temperature = t
	}
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return p, "seed must be an integer"
		}
		p.Seed = &n
	}

	categories := c.DefaultQuery("categories", strings.Join(types.DefaultCategories, ","))
	for _, cat := range strings.Split(categories, ",") {
		if cat = strings.TrimSpace(cat); cat != "" {
			p.Categories = append(p.Categories, cat)
		}
	}

	if p.Description == "" {
		return p, "Missing required parameter: description"
	}
	if p.Artifacts < 1 || p.Artifacts > maxRequestArtifacts {
		return p, "artifacts must be between 1 and 100"
	}
	if p.Temperature < 0.0 || p.Temperature > 1.0 {
		return p, "temperature must be between 0.0 and 1.0"
	}
	return p, ""
}

func (s *Server) handleGenerate(c *gin.Context) {
	params, errMsg := s.parseGenerateParams(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	cfg, err := types.NewGenerationConfig(params.Artifacts, params.Temperature,
		s.cfg.Generation.MaxTokens, params.Categories, params.Seed, params.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	prov, err := s.newProvider(ctx, params.Model)
	if err != nil {
		s.respondError(c, err)
		return
	}

	p := s.builder.Enrich(params.Description, params.Seed)
	s.log.Info("persona built",
		zap.String("slug", p.Slug),
		zap.String("role", p.Role),
		zap.Int("artifacts", params.Artifacts))

	st, err := store.Open(params.DB, s.log)
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer st.Close()

	if err := st.SavePersona(p); err != nil {
		s.log.Warn("persona not saved", zap.String("slug", p.Slug), zap.Error(err))
	}

	orch := batch.NewOrchestrator(st, s.cfg.Provider.MaxParallel, s.log)
	artifacts, err := orch.GenerateBatch(ctx, p, cfg, prov)
	if err != nil {
		s.respondError(c, err)
		return
	}

	persisted, failed := orch.ProcessBatch(artifacts)

	var outputFile any
	if params.Output != "" {
		if err := batch.Export(params.Output, artifacts); err != nil {
			s.respondError(c, err)
			return
		}
		outputFile = params.Output
	}

	artifactsList := artifacts
	if artifactsList == nil {
		artifactsList = []types.Artifact{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": persisted > 0,
		"persona": gin.H{
			"name":    p.Name,
			"slug":    p.Slug,
			"role":    p.Role,
			"company": p.Company,
		},
		"artifacts": gin.H{
			"generated": len(artifacts),
			"persisted": persisted,
			"failed":    failed,
		},
		"database":       params.DB,
		"output_file":    outputFile,
		"artifacts_list": artifactsList,
	})
}

// respondError maps a missing credential to 400 with setup guidance and
// everything else to 500.
func (s *Server) respondError(c *gin.Context, err error) {
	if provider.IsAuth(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"setup": gin.H{
				"instruction": "Set your Gemini API key",
				"windows":     "$env:GEMINI_API_KEY='your-key-here'",
				"linux_mac":   "export GEMINI_API_KEY='your-key-here'",
				"get_key":     "https://ai.google.dev/",
			},
		})
		return
	}
	s.log.Error("generate request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error: " + err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Persona Generator API",
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Persona Generator API",
		"version": s.cfg.Version,
		"endpoints": gin.H{
			"GET /generate": "Generate a persona with artifacts",
			"GET /health":   "Health check",
			"GET /info":     "API information",
		},
		"parameters": gin.H{
			"description": gin.H{"type": "string", "required": true, "example": "Senior Python engineer"},
			"artifacts":   gin.H{"type": "integer", "default": 5, "min": 1, "max": maxRequestArtifacts},
			"categories":  gin.H{"type": "string", "default": strings.Join(types.DefaultCategories, ",")},
			"model":       gin.H{"type": "string", "default": s.cfg.Provider.Model},
			"temperature": gin.H{"type": "float", "default": 0.75, "min": 0.0, "max": 1.0},
			"seed":        gin.H{"type": "integer", "required": false},
			"db":          gin.H{"type": "string", "default": s.cfg.Storage.DatabasePath},
			"output":      gin.H{"type": "string", "required": false},
		},
	})
}
