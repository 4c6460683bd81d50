package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/generator"
	"github.com/ashgrovelabs/testsmith/internal/retrieval"
)

// RootResponse is the response body for GET /.
type RootResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
	Model         string `json:"model"`
}

// RAGGenerationRequest is the request body for POST /generate-test-with-rag.
// The description is free-form; the relevant screens, accessibility IDs, and
// code snippets are retrieved from the indexed app automatically.
type RAGGenerationRequest struct {
	TestDescription string `json:"test_description"`
	TestType        string `json:"test_type,omitempty"` // defaults to "ui"
	ClassName       string `json:"class_name,omitempty"`
	IncludeComments *bool  `json:"include_comments,omitempty"`
	RAGTopK         int    `json:"rag_top_k,omitempty"`
}

// BatchError reports one failed item of a batch request.
type BatchError struct {
	Index       int    `json:"index"`
	Error       string `json:"error"`
	Description string `json:"description"`
}

// BatchResponse is the response body for POST /generate-tests-batch.
type BatchResponse struct {
	Generated int                   `json:"generated"`
	Failed    int                   `json:"failed"`
	Results   []*generator.Response `json:"results"`
	Errors    []BatchError          `json:"errors"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{
		Service: s.config.ServiceName,
		Status:  "running",
		Version: s.config.Version,
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        "healthy",
		LLMConfigured: s.config.LLMConfigured,
		Model:         s.generator.Model(),
	})
}

// handleGenerateTest generates one test from an explicit request, with any
// app context the caller supplies inline.
func (s *Server) handleGenerateTest(c echo.Context) error {
	var req generator.Request
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid generation request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := s.generate(c, req, false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// handleGenerateTestWithRAG retrieves app context for the description, then
// generates. Retrieval failure degrades to contextless generation with the
// error noted in metadata.
func (s *Server) handleGenerateTestWithRAG(c echo.Context) error {
	var req RAGGenerationRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid RAG generation request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	testType := strings.ToLower(strings.TrimSpace(req.TestType))
	if testType == "" {
		testType = generator.TestTypeUI
	}
	if testType != generator.TestTypeUnit && testType != generator.TestTypeUI {
		return echo.NewHTTPError(http.StatusBadRequest, generator.ErrInvalidTestType.Error())
	}

	var bundle retrieval.ContextBundle
	if s.assembler != nil {
		bundle = s.assembler.AppContextTopK(c.Request().Context(), req.TestDescription, req.RAGTopK)
	} else {
		bundle = retrieval.ContextBundle{Error: "retrieval not configured"}
	}

	wrapped := generator.Request{
		TestDescription: req.TestDescription,
		TestType:        testType,
		AppContext:      generator.AppContextFromBundle(bundle, s.config.AppName),
		ClassName:       req.ClassName,
		IncludeComments: req.IncludeComments,
	}

	resp, err := s.generate(c, wrapped, true)
	if err != nil {
		return err
	}

	resp.Metadata["rag_enabled"] = true
	resp.Metadata["rag_context"] = map[string]any{
		"accessibility_ids_found": len(bundle.AccessibilityIDs),
		"screens_found":           len(bundle.Screens),
		"code_snippets_used":      len(bundle.Snippets),
		"total_docs_retrieved":    bundle.TotalMatches,
	}
	if bundle.Error != "" {
		resp.Metadata["rag_error"] = bundle.Error
	}

	return c.JSON(http.StatusOK, resp)
}

// handleGenerateTestsBatch generates each request independently. One bad
// item never fails the batch; it is reported in the errors list instead.
func (s *Server) handleGenerateTestsBatch(c echo.Context) error {
	var reqs []generator.Request
	if err := c.Bind(&reqs); err != nil {
		s.logger.Warn("invalid batch request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp := BatchResponse{
		Results: []*generator.Response{},
		Errors:  []BatchError{},
	}

	for idx, req := range reqs {
		result, err := s.generator.Generate(c.Request().Context(), req)
		if err != nil {
			s.recordGeneration(req.TestType, false, "error")
			resp.Errors = append(resp.Errors, BatchError{
				Index:       idx,
				Error:       err.Error(),
				Description: truncateDescription(req.TestDescription, 100),
			})
			continue
		}
		s.recordGeneration(result.TestType, false, "ok")
		resp.Results = append(resp.Results, result)
	}

	resp.Generated = len(resp.Results)
	resp.Failed = len(resp.Errors)
	return c.JSON(http.StatusOK, resp)
}

// generate runs one generation and maps its errors onto HTTP statuses:
// invalid test types are the caller's fault (400), everything else is a
// generation failure (500).
func (s *Server) generate(c echo.Context, req generator.Request, rag bool) (*generator.Response, error) {
	resp, err := s.generator.Generate(c.Request().Context(), req)
	if err != nil {
		s.recordGeneration(req.TestType, rag, "error")
		if errors.Is(err, generator.ErrInvalidTestType) {
			return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("test generation failed", zap.Error(err))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Error generating test: %s", err))
	}
	s.recordGeneration(resp.TestType, rag, "ok")
	return resp, nil
}

func (s *Server) recordGeneration(testType string, rag bool, outcome string) {
	if s.metrics == nil {
		return
	}
	if testType == "" {
		testType = "unknown"
	}
	s.metrics.RecordGeneration(testType, rag, outcome)
}

func truncateDescription(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
