package ui

import (
	"net/http"
	"strconv"

	"simlab/app"
	"simlab/domain/core"
	"simlab/domain/sim"
	"simlab/internal"
	"simlab/internal/errors"
	"simlab/ports"

	"github.com/gin-gonic/gin"
)

// APIHandler carries the handlers for the simulation endpoints.
type APIHandler struct {
	service *app.WorkbenchService
	runner  *app.BatchRunner
	log     *internal.Logger
}

func NewAPIHandler(service *app.WorkbenchService, runner *app.BatchRunner, logger *internal.Logger) *APIHandler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &APIHandler{
		service: service,
		runner:  runner,
		log:     logger.WithTag("API"),
	}
}

// HandleGenerate draws a sample: POST /api/generate.
func (h *APIHandler) HandleGenerate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req app.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		result, err := h.service.Generate(c.Request.Context(), req)
		if err != nil {
			h.writeError(c, "generate", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleFit runs the goodness-of-fit battery: POST /api/fit.
func (h *APIHandler) HandleFit() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req app.FitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		result, err := h.service.FitTest(c.Request.Context(), req)
		if err != nil {
			h.writeError(c, "fit", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleExperiment runs one scenario: POST /api/experiments/:kind.
func (h *APIHandler) HandleExperiment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req app.ExperimentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		req.Kind = sim.ExperimentKind(c.Param("kind"))

		out, err := h.service.RunExperiment(c.Request.Context(), req)
		if err != nil {
			h.writeError(c, "experiment", err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// HandleBatch fans one kind over many configs: POST /api/experiments/batch.
func (h *APIHandler) HandleBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req app.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		result, err := h.runner.Run(c.Request.Context(), req)
		if err != nil {
			h.writeError(c, "batch", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleExperimentList describes the registered scenarios: GET /api/experiments.
func (h *APIHandler) HandleExperimentList() gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := h.service.Experiments()
		c.JSON(http.StatusOK, gin.H{
			"experiments": infos,
			"count":       len(infos),
		})
	}
}

// HandleLoadSample pulls a numeric column from a file: POST /api/samples/load.
func (h *APIHandler) HandleLoadSample() gin.HandlerFunc {
	type loadRequest struct {
		Path   string `json:"path"`
		Column string `json:"column,omitempty"`
	}
	return func(c *gin.Context) {
		var req loadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		loaded, err := h.service.LoadSample(c.Request.Context(), req.Path, req.Column)
		if err != nil {
			h.writeError(c, "load sample", err)
			return
		}
		c.JSON(http.StatusOK, loaded)
	}
}

// HandleRuns lists recorded runs newest first: GET /api/runs.
func (h *APIHandler) HandleRuns() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := ports.RunFilters{
			Kind:   sim.RunKind(c.Query("kind")),
			Limit:  queryInt(c, "limit", 20, 1, 200),
			Offset: queryInt(c, "offset", 0, 0, 1_000_000),
		}

		records, err := h.service.History(c.Request.Context(), filters)
		if err != nil {
			h.writeError(c, "list runs", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"runs":  records,
			"count": len(records),
		})
	}
}

// HandleRunByID retrieves one recorded run: GET /api/runs/:id.
func (h *APIHandler) HandleRunByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := h.service.HistoryRun(c.Request.Context(), core.RunID(c.Param("id")))
		if err != nil {
			h.writeError(c, "get run", err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// writeError maps domain errors onto HTTP statuses. Parameter and
// expression problems are the caller's, missing runs are 404, the rest
// is on us.
func (h *APIHandler) writeError(c *gin.Context, op string, err error) {
	body := gin.H{"error": err.Error()}

	var status int
	switch code := errors.GetCode(err); code {
	case errors.CodeInvalidParameter, errors.CodeUserExpression, errors.CodeNumericDegeneracy:
		status = http.StatusBadRequest
		body["code"] = code
		if appErr, ok := err.(*errors.AppError); ok && appErr.Param != "" {
			body["param"] = appErr.Param
		}
	default:
		if core.IsNotFoundError(err) {
			status = http.StatusNotFound
		} else {
			h.log.Error("%s failed: %v", op, err)
			status = http.StatusInternalServerError
			body = gin.H{"error": "Internal server error"}
		}
	}
	c.JSON(status, body)
}

func queryInt(c *gin.Context, name string, def, min, max int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || v < min || v > max {
		return def
	}
	return v
}
