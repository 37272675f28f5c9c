package router

import (
	"errors"
	"net/http"
	"sort"

	"github.com/DjordjeVuckovic/rerank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rerank-eval/internal/domain"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/rerank"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/runner"
	"github.com/DjordjeVuckovic/rerank-eval/internal/eval/spec"
	"github.com/labstack/echo/v4"
)

const maxExamplesPerRequest = 1000

type EvalRouter struct {
	e         *echo.Echo
	runner    *runner.Runner
	rerankers map[string]rerank.Reranker
	specs     map[string]spec.Reranker
}

func NewEvalRouter(e *echo.Echo, r *runner.Runner, rerankers map[string]rerank.Reranker, specs map[string]spec.Reranker) *EvalRouter {
	return &EvalRouter{
		e:         e,
		runner:    r,
		rerankers: rerankers,
		specs:     specs,
	}
}

func (r *EvalRouter) Bind() {
	v1 := r.e.Group("/v1")
	v1.GET("/metrics", r.listMetrics)
	v1.GET("/rerankers", r.listRerankers)
	v1.GET("/rerankers/:name", r.getReranker)
	v1.POST("/evaluate", r.evaluate)
}

type MetricsResponse struct {
	Metrics []string `json:"metrics"`
}

type RerankerInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type RerankersResponse struct {
	Rerankers []RerankerInfo `json:"rerankers"`
}

type EvaluateRequest struct {
	Method      string                    `json:"method,omitempty" example:"single"`
	Reranker    string                    `json:"reranker" example:"bm25"`
	DuoReranker string                    `json:"duo_reranker,omitempty"`
	MonoHits    *int                      `json:"mono_hits,omitempty" example:"10"`
	Metrics     []string                  `json:"metrics,omitempty"`
	Examples    []domain.RelevanceExample `json:"examples"`
}

// listMetrics returns the registered metric names.
// @Summary List metrics
// @Description Returns every metric name the evaluator accepts, in registration order
// @Tags Evaluation
// @Produce json
// @Success 200 {object} MetricsResponse
// @Router /v1/metrics [get]
func (r *EvalRouter) listMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, MetricsResponse{Metrics: r.runner.Registry().Names()})
}

// listRerankers returns the rerankers configured on the server.
// @Summary List rerankers
// @Tags Evaluation
// @Produce json
// @Success 200 {object} RerankersResponse
// @Router /v1/rerankers [get]
func (r *EvalRouter) listRerankers(c echo.Context) error {
	out := make([]RerankerInfo, 0, len(r.specs))
	for name, s := range r.specs {
		out = append(out, RerankerInfo{Name: name, Type: s.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return c.JSON(http.StatusOK, RerankersResponse{Rerankers: out})
}

// getReranker returns one configured reranker.
// @Summary Get reranker
// @Tags Evaluation
// @Produce json
// @Param name path string true "Reranker name"
// @Success 200 {object} RerankerInfo
// @Failure 404 {object} map[string]string
// @Router /v1/rerankers/{name} [get]
func (r *EvalRouter) getReranker(c echo.Context) error {
	name := c.Param("name")
	s, ok := r.specs[name]
	if !ok {
		return apperr.NewNotFound("reranker", name)
	}
	return c.JSON(http.StatusOK, RerankerInfo{Name: name, Type: s.Type})
}

// evaluate scores inline examples with configured rerankers.
// @Summary Evaluate rerankers
// @Description Runs a single or duo evaluation over the posted examples and returns the metric report
// @Tags Evaluation
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "Evaluation request"
// @Success 200 {object} report.Report
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /v1/evaluate [post]
func (r *EvalRouter) evaluate(c echo.Context) error {
	var req EvaluateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	if len(req.Examples) == 0 {
		return apperr.NewValidation("examples must not be empty")
	}
	if len(req.Examples) > maxExamplesPerRequest {
		return apperr.NewValidation("too many examples in one request")
	}

	s := &spec.RunSpec{
		Rerankers: r.specs,
		Evaluation: spec.Evaluation{
			Method:      req.Method,
			Reranker:    req.Reranker,
			DuoReranker: req.DuoReranker,
			MonoHits:    req.MonoHits,
			Metrics:     req.Metrics,
		},
	}
	if err := spec.ValidateEvaluation(&s.Evaluation, s.Rerankers); err != nil {
		return err
	}

	rpt, err := r.runner.RunWith(c.Request().Context(), s, runner.Examples(req.Examples), r.rerankers)
	if err != nil {
		var ue *metrics.UnknownMetricError
		if errors.As(err, &ue) {
			return apperr.NewValidation(ue.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, rpt)
}
