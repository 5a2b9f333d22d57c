package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"talentflow/internal/classifier"
	"talentflow/internal/errors"
	"talentflow/internal/types"
	"talentflow/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	// MaxFileSize rejects larger input files; zero disables the check.
	MaxFileSize int64

	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: errors.OrNop(logger)}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	fp.logger.Debug("Read input file", "filename", filename, "size", utils.FormatFileSize(int64(len(content))))
	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFiles validates and reads multiple input files
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([][]byte, error) {
	contents := make([][]byte, len(filenames))

	for i, filename := range filenames {
		if err := utils.ValidateInputFile(filename, fp.MaxFileSize); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		if !utils.IsJSONFile(filename) {
			fp.logger.Warn("File may not be a JSON file", "filename", filename)
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		contents[i] = content
	}

	return contents, nil
}

// ReadResumes reads every file and decodes its payloads. Files that cannot
// be read fail the whole call; payloads that cannot be decoded are returned
// with ParseErr set.
func (fp *FileProcessor) ReadResumes(filenames ...string) ([]classifier.Input, error) {
	contents, err := fp.ValidateAndReadFiles(filenames...)
	if err != nil {
		return nil, err
	}

	var inputs []classifier.Input
	for i, filename := range filenames {
		inputs = append(inputs, DecodeResumes(filename, contents[i])...)
	}
	return inputs, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}

// DecodeResumes decodes a file holding either one resume object or an
// array of them. Array elements are sourced as "name#index".
func DecodeResumes(source string, data []byte) []classifier.Input {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []classifier.Input{{Source: source, ParseErr: parseError("file is empty", nil)}}
	}

	if trimmed[0] != '[' {
		return []classifier.Input{decodeOne(source, trimmed)}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return []classifier.Input{{Source: source, ParseErr: parseError("invalid JSON array", err)}}
	}

	inputs := make([]classifier.Input, len(raw))
	for i, item := range raw {
		inputs[i] = decodeOne(fmt.Sprintf("%s#%d", source, i), item)
	}
	return inputs
}

func decodeOne(source string, data []byte) classifier.Input {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return classifier.Input{Source: source, ParseErr: parseError("resume must be a JSON object", nil)}
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return classifier.Input{Source: source, ParseErr: parseError("invalid resume JSON", err)}
	}
	return classifier.Input{Source: source, Record: &record}
}

func parseError(message string, cause error) error {
	return errors.NewValidationError(errors.ErrCodeInvalidFormat, message, cause)
}
