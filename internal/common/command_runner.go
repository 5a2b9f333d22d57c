package common

import (
	"context"
	"fmt"

	"talentflow/internal/classifier"
	"talentflow/internal/errors"
)

// OperationFunc runs a command's work over the decoded payloads.
type OperationFunc[Output any] func(context.Context, []classifier.Input) (Output, error)

// RunCommand reads the payload files named in args, runs op over them and
// writes the formatted result.
func RunCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	op OperationFunc[Output],
) (Output, error) {
	var zero Output
	logger = errors.OrNop(logger)

	if err := ValidateOutputFormat(cmdConfig.OutputFormat, NewOutputHandler(logger).GetSupportedFormats()); err != nil {
		return zero, errors.NewValidationError(errors.ErrCodeInvalidFormat, err.Error(), nil)
	}

	fp := NewFileProcessor(logger)
	fp.MaxFileSize = cmdConfig.MaxFileSize
	inputs, err := fp.ReadResumes(args...)
	if err != nil {
		return zero, err
	}
	if len(inputs) == 0 {
		return zero, errors.NewValidationError(errors.ErrCodeInvalidInput, "no resumes found in input", nil)
	}

	logger.Info("Processing resumes", "files", len(args), "payloads", len(inputs), "format", cmdConfig.OutputFormat)

	result, err := op(ctx, inputs)
	if err != nil {
		return zero, err
	}

	if err := NewOutputHandler(logger).HandleOutput(result, cmdConfig); err != nil {
		return zero, fmt.Errorf("failed to write output: %w", err)
	}
	return result, nil
}
