package cli

import (
	"talentflow/internal/classifier"
	"talentflow/internal/common"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the layout of the configured artifact bundle",
	Long: `Load the configured model and preprocessors, check that they are
compatible, and print the bundle version, encoder blocks and class labels.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringP("format", "f", "", "Output format: json, text, markdown (default from config)")
	inspectCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	format, output := outputConfig(cmd, cfg)

	clf, bundle, err := classifier.LoadArtifacts(ctx, cfg.Artifacts, logger, nil)
	if err != nil {
		return err
	}

	return common.NewOutputHandler(logger).HandleOutput(bundle.Summary(clf.NumFeatures()),
		common.CommandConfig{OutputFile: output, OutputFormat: format, Stdout: cmd.OutOrStdout()})
}
