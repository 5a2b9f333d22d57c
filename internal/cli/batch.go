package cli

import (
	"context"
	"time"

	"talentflow/internal/cache"
	"talentflow/internal/classifier"
	"talentflow/internal/common"
	"talentflow/internal/export"
	"talentflow/internal/types"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [resume-file...]",
	Short: "Classify many resumes",
	Long: `Classify every resume in the given files. A file may hold a single
resume object or an array of them. Payloads that fail are reported next to
the successful ones without aborting the run.

Use --report to also write an xlsx workbook with a summary sheet and one
row per payload.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	addOutputFlags(batchCmd)
	batchCmd.Flags().String("report", "", "Write an xlsx report to this path")
	batchCmd.Flags().IntP("workers", "w", 4, "Concurrent classifications")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	workers, _ := cmd.Flags().GetInt("workers")
	if err := common.ValidateWorkers(workers); err != nil {
		return err
	}
	report, _ := cmd.Flags().GetString("report")

	opts, err := clockOption(cmd)
	if err != nil {
		return err
	}
	// Repeated payloads within one run reuse earlier results.
	if !cfg.Cache.Enabled {
		opts = append(opts, classifier.WithCache(cache.NewMemoryStore(), cfg.Cache.KeyPrefix, 0))
	}
	format, output := outputConfig(cmd, cfg)

	svc, cleanup, err := newService(ctx, cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer cleanup()

	cmdConfig := common.CommandConfig{
		OutputFile:   output,
		OutputFormat: format,
		MaxFileSize:  cfg.App.MaxFileSize,
		Stdout:       cmd.OutOrStdout(),
	}
	batch, err := common.RunCommand(ctx, logger, cmdConfig, args,
		func(ctx context.Context, inputs []classifier.Input) (*types.BatchResult, error) {
			return svc.ClassifyBatch(ctx, inputs, workers), nil
		})
	if err != nil {
		return err
	}

	logger.Info("Batch classification finished",
		"succeeded", batch.Succeeded,
		"failed", batch.Failed)

	if report == "" {
		return nil
	}
	path, err := export.WriteClassificationReport(report, batch, export.ReportInfo{
		ArtifactVersion: svc.Version(),
		GeneratedAt:     time.Now(),
	})
	if err != nil {
		return err
	}
	logger.Info("Report written", "file", path)
	return nil
}
