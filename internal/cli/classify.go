package cli

import (
	"context"

	"talentflow/internal/classifier"
	"talentflow/internal/common"
	"talentflow/internal/errors"
	"talentflow/internal/types"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [resume-file]",
	Short: "Classify a single resume",
	Long: `Classify one resume JSON payload and print its predicted experience
level, confidence score and content hash.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	addOutputFlags(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	opts, err := clockOption(cmd)
	if err != nil {
		return err
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
	_, err = common.RunCommand(ctx, logger, cmdConfig, args,
		func(ctx context.Context, inputs []classifier.Input) (*types.ClassificationResult, error) {
			if len(inputs) != 1 {
				return nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
					"classify expects a single resume object; use batch for arrays", nil)
			}
			if inputs[0].ParseErr != nil {
				return nil, inputs[0].ParseErr
			}
			return svc.Classify(ctx, inputs[0].Record)
		})
	return err
}
