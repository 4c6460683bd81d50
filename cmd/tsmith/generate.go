package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashgrovelabs/testsmith/internal/generator"
)

var (
	genType       string
	genClassName  string
	genOutput     string
	genNoRAG      bool
	genTopK       int
	genNoComments bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <description>",
	Short: "Generate a Swift test from a natural-language description",
	Long: `Generate Swift test code through the testsmithd server. By default the
server retrieves context (screens, accessibility identifiers, code
snippets) from the indexed app before generating.

The Swift code is written to stdout (or --output); generation metadata
goes to stderr.

Examples:
  # Generate a UI test with retrieved app context
  tsmith generate "login with valid credentials lands on the item list"

  # Generate a unit test without retrieval
  tsmith generate --type unit --no-rag "Validator rejects malformed emails"

  # Write straight into the test target
  tsmith generate --output MyAppUITests/LoginTests.swift "login flow"`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genType, "type", "ui", "test type: unit or ui")
	generateCmd.Flags().StringVar(&genClassName, "class-name", "", "test class name (derived from the description when empty)")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "write the Swift code to this file instead of stdout")
	generateCmd.Flags().BoolVar(&genNoRAG, "no-rag", false, "skip retrieval and generate from the description alone")
	generateCmd.Flags().IntVar(&genTopK, "top-k", 0, "documents to retrieve for context (0 = server default)")
	generateCmd.Flags().BoolVar(&genNoComments, "no-comments", false, "omit explanatory comments from the generated code")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	description := args[0]

	includeComments := !genNoComments
	var body any
	endpoint := "/generate-test-with-rag"
	if genNoRAG {
		endpoint = "/generate-test"
		body = generator.Request{
			TestDescription: description,
			TestType:        genType,
			ClassName:       genClassName,
			IncludeComments: &includeComments,
		}
	} else {
		body = map[string]any{
			"test_description": description,
			"test_type":        genType,
			"class_name":       genClassName,
			"include_comments": includeComments,
			"rag_top_k":        genTopK,
		}
	}

	reqJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := serverURL + endpoint
	httpReq, err := http.NewRequestWithContext(cmd.Context(), "POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Generation waits on the LLM; give it room.
	client := &http.Client{Timeout: 5 * time.Minute}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp generator.Response
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if genOutput != "" {
		if err := os.WriteFile(genOutput, []byte(genResp.SwiftCode+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", genOutput, err)
		}
		fmt.Fprintf(os.Stderr, "[tsmith] wrote %s\n", genOutput)
	} else {
		fmt.Println(genResp.SwiftCode)
	}

	fmt.Fprintf(os.Stderr, "[tsmith] class: %s, type: %s\n", genResp.ClassName, genResp.TestType)
	reportContractValidation(genResp.Metadata)
	return nil
}

// reportContractValidation surfaces failed XCUITest contract checks, if the
// server attached a verdict.
func reportContractValidation(metadata map[string]any) {
	validation, ok := metadata["contract_validation"].(map[string]any)
	if !ok {
		return
	}
	if passed, ok := validation["all_passed"].(bool); ok && passed {
		fmt.Fprintf(os.Stderr, "[tsmith] contract checks passed\n")
		return
	}
	var failed []string
	if list, ok := validation["failed_checks"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				failed = append(failed, s)
			}
		}
	}
	fmt.Fprintf(os.Stderr, "[tsmith] WARNING: contract checks failed: %s\n", strings.Join(failed, ", "))
}
