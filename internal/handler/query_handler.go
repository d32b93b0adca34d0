package handler

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/compcheck/internal/model"
	"github.com/xxxsen/compcheck/internal/pkg/errcode"
	"github.com/xxxsen/compcheck/internal/pkg/response"
)

const (
	minQueryRunes = 3
	maxQueryRunes = 2000
)

// Pipeline is what the transport layer needs from the core: one query in,
// one complete result out.
type Pipeline interface {
	Run(ctx context.Context, query string) (*model.PipelineResult, error)
}

type QueryHandler struct {
	pipeline Pipeline
}

func NewQueryHandler(pipeline Pipeline) *QueryHandler {
	return &QueryHandler{pipeline: pipeline}
}

type queryRequest struct {
	Query string `json:"query"`
}

func (h *QueryHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if n := utf8.RuneCountInString(query); n < minQueryRunes || n > maxQueryRunes {
		response.Error(c, errcode.ErrInvalid, "query must be between 3 and 2000 characters")
		return
	}
	result, err := h.pipeline.Run(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *QueryHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok", "message": "compcheck is running"})
}
