package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/ai"
	"github.com/xxxsen/compcheck/internal/pkg/errcode"
	appErr "github.com/xxxsen/compcheck/internal/pkg/errors"
	"github.com/xxxsen/compcheck/internal/pkg/response"
)

// handleError maps pipeline failures onto stable error codes. The payload
// always carries a non-empty message so callers never have to guess what
// kind of failure they hit.
func handleError(c *gin.Context, err error) {
	logutil.GetLogger(c.Request.Context()).Error("query failed", zap.Error(err))
	code := errcode.ErrInternal
	switch {
	case appErr.IsMissingCollection(err):
		code = errcode.ErrVectorCollection
	case appErr.IsZeroEmbedding(err):
		code = errcode.ErrEmbedding
	case errors.Is(err, ai.ErrUnavailable):
		code = errcode.ErrAIUnavailable
	}
	response.Error(c, code, err.Error())
}
