package pathsvc

import (
	"encoding/hex"
	"net/http"
	"time"

	"github.com/danmuck/binpath/internal/observability"
	"github.com/danmuck/binpath/internal/protocol/binpath"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type decodeRequest struct {
	Hex string `json:"hex" binding:"required"`
}

type pathRequest struct {
	Hex      string              `json:"hex,omitempty"`
	Path     *binpath.BinaryPath `json:"path,omitempty"`
	Notation string              `json:"notation,omitempty"`
}

type batchRequest struct {
	Items []string `json:"items" binding:"required"`
}

func (s *Server) RegisterRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Started).String(),
			"service": s.Name,
			"version": version,
		})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ready": true, "service": s.Name})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1/paths")
	v1.POST("/decode", s.handleDecode)
	v1.POST("/encode", s.handleEncode)
	v1.POST("/validate", s.handleValidate)
	v1.POST("/batch", s.handleBatch)
}

func (s *Server) handleDecode(c *gin.Context) {
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := s.proc.DecodeOne(0, req.Hex)
	if !res.OK() {
		c.Set(observability.ContextKind, res.Error.Kind)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": res.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": res.Path, "notation": res.Notation})
}

func (r pathRequest) empty() bool {
	return r.Hex == "" && r.Path == nil && r.Notation == ""
}

// resolvePath reads the path a request names, by value or by notation.
func (s *Server) resolvePath(req pathRequest) (binpath.BinaryPath, error) {
	switch {
	case req.Path != nil:
		return *req.Path, nil
	case req.Notation != "":
		return binpath.ParseNotation(req.Notation)
	default:
		return s.proc.DecodeHex(req.Hex)
	}
}

func (s *Server) handleEncode(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Path == nil && req.Notation == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path or notation is required"})
		return
	}
	path, err := s.resolvePath(req)
	if err == nil {
		var buf []byte
		if buf, err = s.proc.Encode(path); err == nil {
			c.JSON(http.StatusOK, gin.H{"hex": hex.EncodeToString(buf), "notation": path.String()})
			return
		}
	}
	body := NewErrorBody(err)
	c.Set(observability.ContextKind, body.Kind)
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": body})
}

func (s *Server) handleValidate(c *gin.Context) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hex, path or notation is required"})
		return
	}
	path, err := s.resolvePath(req)
	if err == nil {
		err = s.proc.Validate(path)
	}
	if err != nil {
		body := NewErrorBody(err)
		c.Set(observability.ContextKind, body.Kind)
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": body})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "notation": path.String()})
}

func (s *Server) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) > s.MaxBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many items", "max": s.MaxBatch})
		return
	}
	results := s.proc.DecodeBatch(req.Items)
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "ok": len(results) - failed, "failed": failed})
}
