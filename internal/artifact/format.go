package artifact

import (
	"fmt"

	"talentflow/internal/encoding"
	"talentflow/internal/model"
)

const formatRandomForest = "random_forest"

type modelFile struct {
	Format    string       `json:"format"`
	NFeatures int          `json:"n_features"`
	Classes   []int        `json:"classes"`
	Trees     []model.Tree `json:"trees"`
}

type preprocessorsFile struct {
	FormatVersion          string   `json:"format_version"`
	Version                string   `json:"version"`
	NumericalFeaturesOrder []string `json:"numerical_features_order"`
	Scaler                 struct {
		Min   []float64 `json:"min"`
		Scale []float64 `json:"scale"`
	} `json:"scaler"`
	OneHotEncoder struct {
		Categories []string      `json:"categories"`
		Fallback   *fallbackFile `json:"fallback"`
	} `json:"one_hot_encoder"`
	MLBTech         labelClassesFile `json:"mlb_tech"`
	MLBSkills       labelClassesFile `json:"mlb_skills"`
	TFIDFVectorizer tfidfFile        `json:"tfidf_vectorizer"`
	LevelMapping    map[string]int   `json:"level_mapping"`
}

type fallbackFile struct {
	Aliases []struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"aliases"`
	Default string `json:"default"`
}

type labelClassesFile struct {
	Classes []string `json:"classes"`
}

type tfidfFile struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	StopWords   []string       `json:"stop_words"`
	Lowercase   *bool          `json:"lowercase"`
	Norm        *string        `json:"norm"`
	SublinearTF bool           `json:"sublinear_tf"`
	NgramRange  []int          `json:"ngram_range"`
}

func (m *modelFile) build() (*model.RandomForest, error) {
	if m.Format != "" && m.Format != formatRandomForest {
		return nil, fmt.Errorf("unsupported model format %q", m.Format)
	}
	return model.NewRandomForest(m.NFeatures, m.Classes, m.Trees)
}

func (p *preprocessorsFile) build(version string) (*Bundle, error) {
	if p.FormatVersion != "" && p.FormatVersion != SupportedFormatVersion {
		return nil, fmt.Errorf("unsupported preprocessors format_version %q", p.FormatVersion)
	}

	scaler, err := encoding.NewMinMaxScaler(p.NumericalFeaturesOrder, p.Scaler.Min, p.Scaler.Scale)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}

	fallback := p.educationFallback()
	education, err := encoding.NewOneHotEncoder(p.OneHotEncoder.Categories, fallback)
	if err != nil {
		return nil, fmt.Errorf("one_hot_encoder: %w", err)
	}

	tech, err := encoding.NewMultiLabelBinarizer("tech", p.MLBTech.Classes, encoding.TechnologiesField)
	if err != nil {
		return nil, fmt.Errorf("mlb_tech: %w", err)
	}
	skills, err := encoding.NewMultiLabelBinarizer("skill", p.MLBSkills.Classes, encoding.SoftSkillsField)
	if err != nil {
		return nil, fmt.Errorf("mlb_skills: %w", err)
	}

	textCfg, err := p.TFIDFVectorizer.config()
	if err != nil {
		return nil, fmt.Errorf("tfidf_vectorizer: %w", err)
	}
	text, err := encoding.NewTFIDFVectorizer(textCfg)
	if err != nil {
		return nil, fmt.Errorf("tfidf_vectorizer: %w", err)
	}

	labels, err := NewLabelMapping(p.LevelMapping)
	if err != nil {
		return nil, fmt.Errorf("level_mapping: %w", err)
	}

	if version == "" {
		version = p.Version
	}
	return NewBundle(version, scaler, education, tech, skills, text, labels), nil
}

// educationFallback returns the exported table, or the default table
// restricted to categories the encoder knows.
func (p *preprocessorsFile) educationFallback() encoding.FallbackTable {
	if fb := p.OneHotEncoder.Fallback; fb != nil {
		var table encoding.FallbackTable
		for _, a := range fb.Aliases {
			table = append(table, encoding.AliasRule(a.From, a.To))
		}
		if fb.Default != "" {
			table = append(table, encoding.DefaultRule(fb.Default))
		}
		return table
	}

	known := make(map[string]bool, len(p.OneHotEncoder.Categories))
	for _, c := range p.OneHotEncoder.Categories {
		known[c] = true
	}
	var table encoding.FallbackTable
	for _, rule := range encoding.DefaultEducationFallback() {
		if known[rule.Replacement] {
			table = append(table, rule)
		}
	}
	return table
}

func (t *tfidfFile) config() (encoding.TFIDFConfig, error) {
	cfg := encoding.TFIDFConfig{
		Vocabulary:  t.Vocabulary,
		IDF:         t.IDF,
		StopWords:   t.StopWords,
		Lowercase:   true,
		Norm:        encoding.NormL2,
		SublinearTF: t.SublinearTF,
	}
	if t.Lowercase != nil {
		cfg.Lowercase = *t.Lowercase
	}
	if t.Norm != nil {
		cfg.Norm = encoding.Norm(*t.Norm)
	}
	switch len(t.NgramRange) {
	case 0:
	case 2:
		cfg.NgramRange = [2]int{t.NgramRange[0], t.NgramRange[1]}
	default:
		return cfg, fmt.Errorf("ngram_range must have two elements")
	}
	return cfg, nil
}
