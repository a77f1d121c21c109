package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mateo/quotient/internal/db"
	"github.com/mateo/quotient/internal/observability"
	"github.com/mateo/quotient/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workflow status for a project",
	RunE:  runStatus,
}

var statusProjectID string

func init() {
	statusCmd.Flags().StringVarP(&statusProjectID, "project", "p", "", "Project UUID (required)")

	if err := statusCmd.MarkFlagRequired("project"); err != nil {
		panic(fmt.Sprintf("failed to mark project flag as required: %v", err))
	}

	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	projectID, err := uuid.Parse(statusProjectID)
	if err != nil {
		return fmt.Errorf("invalid project id %q: %w", statusProjectID, err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	// Status is read-only; no scanner is needed.
	manager := workflow.NewManager(database, nil)
	cfg, err := manager.GetWorkflowStatus(ctx, projectID)
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("no workflow found for project %s", projectID)
	}

	observability.NewPrinter(os.Stdout).PrintWorkflowStatus(cfg)
	return nil
}
