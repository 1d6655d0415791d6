package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <gateway-url>",
	Short: "Check the status of a running gateway",
	Long:  `Query a running gateway's health and version endpoints`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := args[0]
		client := &http.Client{Timeout: 10 * time.Second}

		resp, err := client.Get(baseURL + "/health")
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("gateway unhealthy: health returned %d", resp.StatusCode)
		}

		versionResp, err := client.Get(baseURL + "/version")
		if err != nil {
			return fmt.Errorf("version check failed: %w", err)
		}
		defer versionResp.Body.Close()

		body, err := io.ReadAll(versionResp.Body)
		if err != nil {
			return fmt.Errorf("failed to read version response: %w", err)
		}

		var info struct {
			Version   string `json:"version"`
			BuildTime string `json:"build_time"`
			Service   string `json:"service"`
		}
		if err := json.Unmarshal(body, &info); err != nil {
			return fmt.Errorf("failed to decode version response: %w", err)
		}

		fmt.Printf("%s is healthy\n", baseURL)
		fmt.Printf("service: %s\nversion: %s\nbuilt:   %s\n", info.Service, info.Version, info.BuildTime)
		return nil
	},
}
