package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sphere-wallet/sphere-gateway/internal/circle"
	"github.com/sphere-wallet/sphere-gateway/internal/crypto"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a webhook signature",
	Long: `Verify a webhook notification signature against the platform's published signing key.

This command is useful for checking captured webhook requests: pass the
x-circle-key-id and x-circle-signature header values and the raw request body.

Example:
  sphere-cli verify --key-id "c78ebe4a-..." --signature "MEUCIQ..." --payload-file ./webhook-body.json`,
	RunE: runVerify,
}

var (
	webhookKeyID     string
	webhookSignature string
	payloadPath      string
)

func init() {
	verifyCmd.Flags().StringVar(&webhookKeyID, "key-id", "", "signing key id from the x-circle-key-id header (required)")
	verifyCmd.Flags().StringVar(&webhookSignature, "signature", "", "base64 signature from the x-circle-signature header (required)")
	verifyCmd.Flags().StringVar(&payloadPath, "payload-file", "", "file containing the raw webhook body (required)")
	verifyCmd.MarkFlagRequired("key-id")
	verifyCmd.MarkFlagRequired("signature")
	verifyCmd.MarkFlagRequired("payload-file")
}

func runVerify(cmd *cobra.Command, args []string) error {
	rawBody, err := os.ReadFile(payloadPath)
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}

	wallets := circle.NewClient(cfg.CircleBaseURL, cfg.CircleAPIKey,
		circle.WithTimeout(cfg.CircleHTTPTimeout))
	verifier := crypto.NewVerifier(wallets, appLogger)

	verified, err := verifier.Verify(cmd.Context(), webhookKeyID, rawBody, webhookSignature)
	if err != nil {
		appLogger.Warn("verification error", slog.String("error", err.Error()))
	}
	if !verified {
		fmt.Println("signature NOT verified")
		os.Exit(1)
	}

	fmt.Println("signature verified")
	return nil
}
