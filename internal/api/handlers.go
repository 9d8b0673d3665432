package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/engine"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/pipeline"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
)

type Handler struct {
	engine   engine.Engine
	registry *languages.Registry
	worker   pipeline.Worker
	logger   *zap.SugaredLogger
}

// NewHandler serves the synchronous entry points. worker may be nil when the
// process does not consume judging jobs.
func NewHandler(eng engine.Engine, registry *languages.Registry, worker pipeline.Worker) *Handler {
	return &Handler{
		engine:   eng,
		registry: registry,
		worker:   worker,
		logger:   logger.NewNamedLogger("api"),
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// Run executes code once against the given input.
func (h *Handler) Run(c *gin.Context) {
	var req messages.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request parameters")
		return
	}
	if _, err := h.registry.Get(req.Language); err != nil {
		badRequest(c, err.Error())
		return
	}

	res := h.engine.RunSingle(c.Request.Context(), req.Language, req.Code, req.Input)
	h.logger.Infof("Run finished with verdict %s [Language: %s]", res.Verdict, req.Language)
	c.JSON(http.StatusOK, res)
}

// RunBatch judges code against every test case and reports each one.
func (h *Handler) RunBatch(c *gin.Context) {
	var req messages.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request parameters")
		return
	}
	if len(req.TestCases) == 0 {
		badRequest(c, "at least one test case is required")
		return
	}
	if _, err := h.registry.Get(req.Language); err != nil {
		badRequest(c, err.Error())
		return
	}

	report := h.engine.RunFullBatch(c.Request.Context(), req.Language, req.Code, req.TestCases)
	h.logger.Infof("Batch of %d cases finished with verdict %s [Language: %s]",
		len(req.TestCases), report.Verdict, req.Language)
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Languages(c *gin.Context) {
	langs := h.registry.List()
	specs := make([]messages.LanguageSpec, 0, len(langs))
	for _, l := range langs {
		specs = append(specs, l.Spec())
	}
	c.JSON(http.StatusOK, specs)
}

func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.worker != nil {
		body["worker"] = h.worker.GetState()
	}
	c.JSON(http.StatusOK, body)
}
