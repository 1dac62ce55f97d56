package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scorewise/scorewise/internal/daemon"
)

// ─── One-shot scoring commands ──────────────────────────────────────────────
// Operate directly on the local database, without the HTTP server.

var scoreCmd = &cobra.Command{
	Use:   "score USER_ID",
	Short: "Score a user and persist the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var predictCmd = &cobra.Command{
	Use:   "predict USER_ID MONTHLY_AMOUNT",
	Short: "Project score growth for a monthly remittance habit",
	Long: `Simulate the user's score at 6, 12, and 18 months of a steady monthly
remittance of MONTHLY_AMOUNT. Nothing is persisted.`,
	Args: cobra.ExactArgs(2),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(predictCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || userID <= 0 {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	svc, db, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	score, err := svc.ScoreUser(context.Background(), userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "user %d: credit score %d\n", userID, score)
	return nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || userID <= 0 {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount < 0 {
		return fmt.Errorf("invalid monthly amount %q", args[1])
	}

	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	svc, db, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	proj, err := svc.PredictGrowth(context.Background(), userID, amount)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(proj)
}
