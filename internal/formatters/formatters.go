package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"talentflow/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ClassificationResult", &ClassificationTextFormatter{})
	registry.RegisterFormatter("markdown", "ClassificationResult", &ClassificationMarkdownFormatter{})
	registry.RegisterFormatter("text", "BatchResult", &BatchTextFormatter{})
	registry.RegisterFormatter("markdown", "BatchResult", &BatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "BundleSummary", &BundleTextFormatter{})
	registry.RegisterFormatter("markdown", "BundleSummary", &BundleMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data = deref(data)
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

// deref lets callers pass results by pointer or by value.
func deref(data any) any {
	switch v := data.(type) {
	case *types.ClassificationResult:
		if v != nil {
			return *v
		}
	case *types.BatchResult:
		if v != nil {
			return *v
		}
	case *types.BundleSummary:
		if v != nil {
			return *v
		}
	}
	return data
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ClassificationResult:
		return "ClassificationResult"
	case types.BatchResult:
		return "BatchResult"
	case types.BundleSummary:
		return "BundleSummary"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ClassificationTextFormatter renders a single classification
type ClassificationTextFormatter struct{}

func (f *ClassificationTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ClassificationResult)
	if !ok {
		return "", fmt.Errorf("expected ClassificationResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== EXPERIENCE LEVEL ===\n")
	fmt.Fprintf(&output, "User:       %s\n", result.UserID)
	fmt.Fprintf(&output, "Level:      %s\n", result.PredictedExperienceLevel)
	fmt.Fprintf(&output, "Confidence: %.2f%%\n", result.ConfidenceScore*100)
	fmt.Fprintf(&output, "Hash:       %s\n", result.ContentHash)
	return output.String(), nil
}

func (f *ClassificationTextFormatter) SupportedType() string {
	return "ClassificationResult"
}

// ClassificationMarkdownFormatter renders a single classification
type ClassificationMarkdownFormatter struct{}

func (f *ClassificationMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ClassificationResult)
	if !ok {
		return "", fmt.Errorf("expected ClassificationResult, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Experience Level: %s\n\n", result.PredictedExperienceLevel)
	output.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&output, "| User | `%s` |\n", result.UserID)
	fmt.Fprintf(&output, "| Confidence | %.2f%% |\n", result.ConfidenceScore*100)
	fmt.Fprintf(&output, "| Content hash | `%s` |\n", result.ContentHash)
	return output.String(), nil
}

func (f *ClassificationMarkdownFormatter) SupportedType() string {
	return "ClassificationResult"
}

// BatchTextFormatter renders batch results one line per payload
type BatchTextFormatter struct{}

func (f *BatchTextFormatter) Format(data any) (string, error) {
	batch, ok := data.(types.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== BATCH CLASSIFICATION ===\n")
	fmt.Fprintf(&output, "Succeeded: %d  Failed: %d  Mean confidence: %.2f%%\n\n",
		batch.Succeeded, batch.Failed, batch.MeanConfidence()*100)

	for _, item := range batch.Items {
		if item.Result != nil {
			fmt.Fprintf(&output, "%-24s %-14s %6.2f%%  %s\n", item.UserID,
				item.Result.PredictedExperienceLevel, item.Result.ConfidenceScore*100, item.Source)
			continue
		}
		fmt.Fprintf(&output, "%-24s FAILED         %s: %s\n", item.UserID, item.Source, item.Error)
	}

	if len(batch.ByLevel) > 0 {
		output.WriteString("\nBy level:\n")
		for _, level := range LevelOrder(batch.ByLevel) {
			fmt.Fprintf(&output, "  %-14s %d\n", level, batch.ByLevel[level])
		}
	}
	return output.String(), nil
}

func (f *BatchTextFormatter) SupportedType() string {
	return "BatchResult"
}

// BatchMarkdownFormatter renders batch results as a table
type BatchMarkdownFormatter struct{}

func (f *BatchMarkdownFormatter) Format(data any) (string, error) {
	batch, ok := data.(types.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Batch Classification\n\n")
	fmt.Fprintf(&output, "- Succeeded: %d\n- Failed: %d\n- Mean confidence: %.2f%%\n\n",
		batch.Succeeded, batch.Failed, batch.MeanConfidence()*100)

	output.WriteString("| User | Level | Confidence | Source | Error |\n|---|---|---|---|---|\n")
	for _, item := range batch.Items {
		if item.Result != nil {
			fmt.Fprintf(&output, "| %s | %s | %.2f%% | %s | |\n", item.UserID,
				item.Result.PredictedExperienceLevel, item.Result.ConfidenceScore*100, item.Source)
			continue
		}
		fmt.Fprintf(&output, "| %s | | | %s | %s |\n", item.UserID, item.Source, item.Error)
	}
	return output.String(), nil
}

func (f *BatchMarkdownFormatter) SupportedType() string {
	return "BatchResult"
}

// BundleTextFormatter renders the artifact layout
type BundleTextFormatter struct{}

func (f *BundleTextFormatter) Format(data any) (string, error) {
	summary, ok := data.(types.BundleSummary)
	if !ok {
		return "", fmt.Errorf("expected BundleSummary, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== ARTIFACT BUNDLE ===\n")
	fmt.Fprintf(&output, "Version:        %s\n", summary.Version)
	fmt.Fprintf(&output, "Vector width:   %d (model expects %d)\n", summary.Width, summary.ModelFeatures)
	fmt.Fprintf(&output, "Numeric order:  %s\n", strings.Join(summary.NumericOrder, ", "))
	fmt.Fprintf(&output, "Education:      %s\n", strings.Join(summary.EducationCategories, ", "))
	if len(summary.EducationFallback) > 0 {
		fmt.Fprintf(&output, "Fallback:       %s\n", strings.Join(summary.EducationFallback, "; "))
	}
	fmt.Fprintf(&output, "Labels:         %s\n\n", strings.Join(summary.Labels, ", "))

	output.WriteString("Blocks:\n")
	for _, block := range summary.Blocks {
		fmt.Fprintf(&output, "  %-14s offset %4d  width %4d\n", block.Name, block.Offset, block.Width)
	}
	return output.String(), nil
}

func (f *BundleTextFormatter) SupportedType() string {
	return "BundleSummary"
}

// BundleMarkdownFormatter renders the artifact layout
type BundleMarkdownFormatter struct{}

func (f *BundleMarkdownFormatter) Format(data any) (string, error) {
	summary, ok := data.(types.BundleSummary)
	if !ok {
		return "", fmt.Errorf("expected BundleSummary, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# Artifact Bundle `%s`\n\n", summary.Version)
	fmt.Fprintf(&output, "Vector width **%d**, model features **%d**.\n\n", summary.Width, summary.ModelFeatures)
	output.WriteString("| Block | Offset | Width |\n|---|---|---|\n")
	for _, block := range summary.Blocks {
		fmt.Fprintf(&output, "| %s | %d | %d |\n", block.Name, block.Offset, block.Width)
	}
	fmt.Fprintf(&output, "\nLabels: %s\n", strings.Join(summary.Labels, ", "))
	return output.String(), nil
}

func (f *BundleMarkdownFormatter) SupportedType() string {
	return "BundleSummary"
}

// LevelOrder lists the known labels present in byLevel first, in class
// order, then any other label sorted.
func LevelOrder(byLevel map[string]int) []string {
	var order []string
	for _, level := range types.ExperienceLevels {
		if _, ok := byLevel[level]; ok {
			order = append(order, level)
		}
	}
	var rest []string
	for level := range byLevel {
		if !slices.Contains(types.ExperienceLevels, level) {
			rest = append(rest, level)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

// GlobalRegistry is the shared registry used by the CLI.
var GlobalRegistry = NewFormatterRegistry()
