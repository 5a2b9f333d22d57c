package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/types"
)

var educationCategories = []string{"Doutorado", "Graduação", "Nenhum", "Pós-graduação", "Técnico"}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()

	scaler, err := NewMinMaxScaler(types.NumericFeatureNames, []float64{0, 0, 0}, []float64{0.05, 0.1, 0.1})
	require.NoError(t, err)
	onehot, err := NewOneHotEncoder(educationCategories, DefaultEducationFallback())
	require.NoError(t, err)
	tech, err := NewMultiLabelBinarizer("tech", []string{"Cloud Computing", "Go", "Python"}, TechnologiesField)
	require.NoError(t, err)
	skills, err := NewMultiLabelBinarizer("skill", []string{"Comunicação", "Liderança"}, SoftSkillsField)
	require.NoError(t, err)
	text, err := NewTFIDFVectorizer(TFIDFConfig{
		Vocabulary: map[string]int{"backend": 0, "dados": 1},
		IDF:        []float64{1, 2},
		Lowercase:  true,
		Norm:       NormL2,
	})
	require.NoError(t, err)

	return NewPipeline(scaler, onehot, tech, skills, text)
}

func TestPipelineLayout(t *testing.T) {
	p := newTestPipeline(t)

	assert.Equal(t, 15, p.Width())
	assert.Equal(t, []Span{
		{Name: BlockNumeric, Offset: 0, Width: 3},
		{Name: BlockEducation, Offset: 3, Width: 5},
		{Name: BlockTechnologies, Offset: 8, Width: 3},
		{Name: BlockSkills, Offset: 11, Width: 2},
		{Name: BlockText, Offset: 13, Width: 2},
	}, p.Layout())

	names := p.FeatureNames()
	require.Len(t, names, p.Width())
	assert.Equal(t, "totalYearsExperience", names[0])
	assert.Equal(t, "highestEducationLevel_Doutorado", names[3])
	assert.Equal(t, "tech_Cloud Computing", names[8])
	assert.Equal(t, "skill_Liderança", names[12])
	assert.Equal(t, "dados", names[14])
}

func TestPipelineEncode(t *testing.T) {
	p := newTestPipeline(t)
	f := &types.IntermediateFeatures{
		TotalYearsExperience:  10,
		NumberOfJobs:          4,
		AvgYearsPerJob:        2.5,
		HighestEducationLevel: "Graduação",
		Technologies:          []string{"Go", "Rust"},
		SoftSkills:            []string{"Liderança"},
		FullText:              "Backend BACKEND",
	}

	vec := p.Encode(f)

	require.Len(t, vec, p.Width())
	assert.InDeltaSlice(t, []float64{0.5, 0.4, 0.25}, vec[0:3], 1e-12)
	assert.Equal(t, []float64{0, 1, 0, 0, 0}, vec[3:8])
	assert.Equal(t, []float64{0, 1, 0}, vec[8:11])
	assert.Equal(t, []float64{0, 1}, vec[11:13])
	assert.InDeltaSlice(t, []float64{1, 0}, vec[13:15], 1e-12)
}

func TestPipelineWidthIgnoresUnseenValues(t *testing.T) {
	p := newTestPipeline(t)
	f := &types.IntermediateFeatures{
		HighestEducationLevel: "Pós-doutorado",
		Technologies:          []string{"COBOL", "Fortran"},
		SoftSkills:            []string{"Empatia"},
		FullText:              "nada conhecido aqui",
	}

	vec := p.Encode(f)

	require.Len(t, vec, p.Width())
	// unknown level falls back to Graduação
	assert.Equal(t, []float64{0, 1, 0, 0, 0}, vec[3:8])
	assert.Equal(t, make([]float64, 7), vec[8:15])
}

func TestOneHotFallback(t *testing.T) {
	enc, err := NewOneHotEncoder(educationCategories, DefaultEducationFallback())
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"Doutorado", "Doutorado"},
		{"Mestrado", "Pós-graduação"},
		{"Bootcamp", "Graduação"},
		{"", "Graduação"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := enc.Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOneHotWithoutFallbackYieldsZeroRow(t *testing.T) {
	enc, err := NewOneHotEncoder(educationCategories, nil)
	require.NoError(t, err)

	dst := make([]float64, enc.Width())
	enc.Transform(&types.IntermediateFeatures{HighestEducationLevel: "Mestrado"}, dst)

	assert.Equal(t, make([]float64, 5), dst)
}

func TestOneHotRejectsUnknownFallbackTarget(t *testing.T) {
	_, err := NewOneHotEncoder(educationCategories, FallbackTable{AliasRule("Mestrado", "MBA")})
	assert.Error(t, err)

	_, err = NewOneHotEncoder([]string{"A", "A"}, nil)
	assert.Error(t, err)
}

func TestFallbackTableFirstMatchWins(t *testing.T) {
	table := FallbackTable{
		AliasRule("MSc", "Pós-graduação"),
		AliasRule("MSc", "Doutorado"),
		DefaultRule("Graduação"),
	}

	got, ok := table.Resolve("MSc")
	assert.True(t, ok)
	assert.Equal(t, "Pós-graduação", got)

	_, ok = FallbackTable{AliasRule("MSc", "Pós-graduação")}.Resolve("PhD")
	assert.False(t, ok)
}

func TestBinarizerIsExactMatch(t *testing.T) {
	b, err := NewMultiLabelBinarizer("tech", []string{"Go", "Python"}, TechnologiesField)
	require.NoError(t, err)

	dst := make([]float64, b.Width())
	b.Transform(&types.IntermediateFeatures{Technologies: []string{"go", " Python", "Go"}}, dst)

	assert.Equal(t, []float64{1, 0}, dst)
}

func TestScalerValidation(t *testing.T) {
	_, err := NewMinMaxScaler([]string{"totalYearsExperience"}, []float64{0, 0}, []float64{1})
	assert.Error(t, err)

	_, err = NewMinMaxScaler([]string{"yearsOfPain"}, []float64{0}, []float64{1})
	assert.Error(t, err)

	_, err = NewMinMaxScaler(nil, nil, nil)
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"Júnior", "em", "UI", "UX", "25", "a1", "b_c"},
		tokenize("Júnior em UI/UX: 25% a1 b_c é x"))
	assert.Empty(t, tokenize(" . , "))
}

func TestTFIDFWeightsAndNorm(t *testing.T) {
	v, err := NewTFIDFVectorizer(TFIDFConfig{
		Vocabulary: map[string]int{"go": 0, "backend": 1, "dados": 2},
		IDF:        []float64{1, 2, 1.5},
		Lowercase:  true,
		Norm:       NormL2,
	})
	require.NoError(t, err)

	dst := make([]float64, v.Width())
	v.vectorize("Go backend GO and dados!", dst)

	norm := math.Sqrt(4 + 4 + 2.25)
	assert.InDeltaSlice(t, []float64{2 / norm, 2 / norm, 1.5 / norm}, dst, 1e-12)
}

func TestTFIDFSublinearAndStopWords(t *testing.T) {
	v, err := NewTFIDFVectorizer(TFIDFConfig{
		Vocabulary:  map[string]int{"go": 0, "de": 1},
		IDF:         []float64{2, 1},
		StopWords:   []string{"de"},
		Lowercase:   true,
		SublinearTF: true,
		Norm:        NormNone,
	})
	require.NoError(t, err)

	dst := make([]float64, v.Width())
	v.vectorize("go go de go", dst)

	assert.InDeltaSlice(t, []float64{2 * (1 + math.Log(3)), 0}, dst, 1e-12)
}

func TestTFIDFNgrams(t *testing.T) {
	v, err := NewTFIDFVectorizer(TFIDFConfig{
		Vocabulary: map[string]int{"a1": 0, "a1 b2": 1, "b2 c3": 2},
		IDF:        []float64{1, 1, 1},
		NgramRange: [2]int{1, 2},
		Norm:       NormL1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "b2", "c3", "a1 b2", "b2 c3"}, v.analyze("a1 b2 c3"))

	dst := make([]float64, v.Width())
	v.vectorize("a1 b2 c3", dst)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, dst, 1e-12)
}

func TestTFIDFEmptyTextIsZero(t *testing.T) {
	v, err := NewTFIDFVectorizer(TFIDFConfig{
		Vocabulary: map[string]int{"go": 0},
		IDF:        []float64{1},
		Norm:       NormL2,
	})
	require.NoError(t, err)

	dst := make([]float64, 1)
	v.vectorize("", dst)
	assert.Equal(t, []float64{0}, dst)
}

func TestTFIDFValidation(t *testing.T) {
	_, err := NewTFIDFVectorizer(TFIDFConfig{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1, 2}})
	assert.Error(t, err)

	_, err = NewTFIDFVectorizer(TFIDFConfig{Vocabulary: map[string]int{"go": 0, "rust": 0}, IDF: []float64{1, 2}})
	assert.Error(t, err)

	_, err = NewTFIDFVectorizer(TFIDFConfig{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1}, Norm: "max"})
	assert.Error(t, err)

	_, err = NewTFIDFVectorizer(TFIDFConfig{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1}, NgramRange: [2]int{2, 1}})
	assert.Error(t, err)
}
