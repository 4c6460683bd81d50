// Package generator turns natural-language test descriptions into Swift
// XCTest and XCUITest code via an LLM, then post-processes and validates
// the output.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/retrieval"
)

// ErrInvalidTestType rejects requests whose test_type is neither "unit"
// nor "ui".
var ErrInvalidTestType = errors.New("test_type must be 'unit' or 'ui'")

// Generator produces test code through an LLMClient.
type Generator struct {
	client   LLMClient
	provider string
	model    string
	logger   *zap.Logger
}

// New creates a Generator. provider and model are echoed into response
// metadata only.
func New(client LLMClient, provider, model string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, provider: provider, model: model, logger: logger}
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.model
}

// Generate produces one test. UI outputs are validated against the XCUITest
// contract; the verdict is attached to metadata but never fails the call.
func (g *Generator) Generate(ctx context.Context, req Request) (*Response, error) {
	testType := strings.ToLower(strings.TrimSpace(req.TestType))
	if testType != TestTypeUnit && testType != TestTypeUI {
		return nil, ErrInvalidTestType
	}

	systemPrompt := xcTestSystemPrompt
	defaultClassName := DefaultUnitClassName
	if testType == TestTypeUI {
		systemPrompt = xcuiTestSystemPrompt
		defaultClassName = DefaultUIClassName
	}

	contextSection := buildContextSection(req.AppContext)
	userMessage := buildUserMessage(req, testType)

	raw, err := g.client.Complete(ctx, systemPrompt, userMessage)
	if err != nil {
		return nil, fmt.Errorf("llm completion failed: %w", err)
	}

	swiftCode := StripCodeFences(raw)

	fallback := req.ClassName
	if fallback == "" {
		fallback = defaultClassName
	}
	className := ExtractClassName(swiftCode, fallback)

	metadata := map[string]any{
		"provider":         g.provider,
		"model":            g.model,
		"has_context":      req.AppContext != nil,
		"context_provided": contextSection != "",
	}
	if testType == TestTypeUI {
		checks := ValidateXCUITestContract(swiftCode)
		metadata["contract_validation"] = map[string]any{
			"has_xcuiapplication":    checks.HasXCUIApplication,
			"has_app_launch":         checks.HasAppLaunch,
			"has_wait_for_existence": checks.HasWaitForExistence,
			"has_assertions":         checks.HasAssertions,
			"has_setup_teardown":     checks.HasSetupTeardown,
			"all_passed":             checks.AllPassed(),
			"failed_checks":          checks.Failed(),
		}
		if !checks.AllPassed() {
			g.logger.Warn("generated UI test failed contract checks",
				zap.Strings("failed_checks", checks.Failed()),
				zap.String("class_name", className),
			)
		}
	}

	return &Response{
		SwiftCode: swiftCode,
		TestType:  testType,
		ClassName: className,
		Metadata:  metadata,
	}, nil
}

// AppContextFromBundle converts retrieved context into an AppContext.
// Snippets are rendered as commented Swift blocks so the prompt reads like
// source, not JSON. An empty or degraded bundle still yields a context
// carrying the app name, so the prompt always identifies the app under
// test.
func AppContextFromBundle(bundle retrieval.ContextBundle, appName string) *AppContext {
	var snippets []string
	for _, s := range bundle.Snippets {
		snippets = append(snippets, fmt.Sprintf("// %s from %s\n%s", s.Kind, s.Path, s.Text))
	}

	return &AppContext{
		AppName:            appName,
		Screens:            bundle.Screens,
		AccessibilityIDs:   bundle.AccessibilityIDs,
		SourceCodeSnippets: strings.Join(snippets, "\n\n"),
	}
}
