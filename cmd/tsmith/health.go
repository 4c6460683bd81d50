package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check testsmithd server health",
	Long: `Check the health status of the testsmithd HTTP server.

Examples:
  # Check health
  tsmith health

  # Check health on a different server
  tsmith health --server http://localhost:9000`,
	RunE: runHealth,
}

// HealthResponse matches internal/httpapi HealthResponse.
type HealthResponse struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
	Model         string `json:"model"`
}

func runHealth(cmd *cobra.Command, args []string) error {
	url := serverURL + "/health"

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status:  %s\n", healthResp.Status)
	fmt.Printf("Server URL:     %s\n", serverURL)
	fmt.Printf("LLM Configured: %t\n", healthResp.LLMConfigured)
	fmt.Printf("Model:          %s\n", healthResp.Model)
	return nil
}
