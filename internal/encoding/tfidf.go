package encoding

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"talentflow/internal/types"
)

// Norm selects the row normalisation applied after weighting.
type Norm string

const (
	NormL2   Norm = "l2"
	NormL1   Norm = "l1"
	NormNone Norm = ""
)

// TFIDFConfig holds the fitted state of a text vectorizer.
type TFIDFConfig struct {
	Vocabulary  map[string]int
	IDF         []float64
	StopWords   []string
	Lowercase   bool
	Norm        Norm
	SublinearTF bool
	// NgramRange is the inclusive [min, max] n-gram length. Zero means [1, 1].
	NgramRange [2]int
}

// TFIDFVectorizer weights term counts of fullText by inverse document
// frequency over a closed vocabulary.
type TFIDFVectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	stopWords  map[string]struct{}
	lowercase  bool
	norm       Norm
	sublinear  bool
	minN, maxN int
}

// NewTFIDFVectorizer checks that the vocabulary indexes every idf column
// exactly once.
func NewTFIDFVectorizer(cfg TFIDFConfig) (*TFIDFVectorizer, error) {
	if len(cfg.IDF) != len(cfg.Vocabulary) {
		return nil, fmt.Errorf("idf length %d does not match vocabulary size %d", len(cfg.IDF), len(cfg.Vocabulary))
	}
	terms := make([]string, len(cfg.IDF))
	for term, col := range cfg.Vocabulary {
		if col < 0 || col >= len(terms) {
			return nil, fmt.Errorf("term %q has column %d outside [0,%d)", term, col, len(terms))
		}
		if terms[col] != "" {
			return nil, fmt.Errorf("column %d assigned to both %q and %q", col, terms[col], term)
		}
		terms[col] = term
	}

	switch cfg.Norm {
	case NormL1, NormL2, NormNone:
	default:
		return nil, fmt.Errorf("unsupported norm %q", cfg.Norm)
	}

	minN, maxN := cfg.NgramRange[0], cfg.NgramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("invalid ngram range [%d, %d]", minN, maxN)
	}

	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[w] = struct{}{}
	}

	vocab := make(map[string]int, len(cfg.Vocabulary))
	for term, col := range cfg.Vocabulary {
		vocab[term] = col
	}

	return &TFIDFVectorizer{
		vocabulary: vocab,
		terms:      terms,
		idf:        append([]float64(nil), cfg.IDF...),
		stopWords:  stop,
		lowercase:  cfg.Lowercase,
		norm:       cfg.Norm,
		sublinear:  cfg.SublinearTF,
		minN:       minN,
		maxN:       maxN,
	}, nil
}

func (v *TFIDFVectorizer) Width() int { return len(v.terms) }

func (v *TFIDFVectorizer) FeatureNames() []string {
	return append([]string(nil), v.terms...)
}

func (v *TFIDFVectorizer) Transform(f *types.IntermediateFeatures, dst []float64) {
	v.vectorize(f.FullText, dst)
}

func (v *TFIDFVectorizer) vectorize(text string, dst []float64) {
	for _, term := range v.analyze(text) {
		if col, ok := v.vocabulary[term]; ok {
			dst[col]++
		}
	}

	for i, tf := range dst {
		if tf == 0 {
			continue
		}
		if v.sublinear {
			tf = 1 + math.Log(tf)
		}
		dst[i] = tf * v.idf[i]
	}

	var norm float64
	switch v.norm {
	case NormL2:
		for _, x := range dst {
			norm += x * x
		}
		norm = math.Sqrt(norm)
	case NormL1:
		for _, x := range dst {
			norm += math.Abs(x)
		}
	}
	if norm == 0 {
		return
	}
	for i := range dst {
		dst[i] /= norm
	}
}

// analyze produces the n-gram terms of text in the order the fitted
// vectorizer would see them.
func (v *TFIDFVectorizer) analyze(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	tokens := tokenize(text)
	if len(v.stopWords) > 0 {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, stop := v.stopWords[t]; !stop {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}
	if v.minN == 1 && v.maxN == 1 {
		return tokens
	}

	var terms []string
	if v.minN == 1 {
		terms = append(terms, tokens...)
	}
	for n := max(v.minN, 2); n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// tokenize returns maximal runs of at least two word characters.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	var runes int
	flush := func() {
		if runes >= 2 {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		runes = 0
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			current.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()
	return tokens
}
