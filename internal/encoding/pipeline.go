package encoding

import "talentflow/internal/types"

// Block names, in the order their columns appear in the encoded vector.
const (
	BlockNumeric      = "numeric"
	BlockEducation    = "education"
	BlockTechnologies = "technologies"
	BlockSkills       = "skills"
	BlockText         = "text"
)

// Block is one named transformer in the pipeline.
type Block struct {
	Name        string
	Transformer Transformer
}

// Span locates a block inside the encoded vector.
type Span struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Width  int    `json:"width"`
}

// Pipeline concatenates the five fitted transformers. The block order is
// fixed by NewPipeline and must match the order used when the classifier
// was trained: numeric, education, technologies, skills, text.
type Pipeline struct {
	blocks []Block
	width  int
}

func NewPipeline(numeric, education, technologies, skills, text Transformer) *Pipeline {
	blocks := []Block{
		{Name: BlockNumeric, Transformer: numeric},
		{Name: BlockEducation, Transformer: education},
		{Name: BlockTechnologies, Transformer: technologies},
		{Name: BlockSkills, Transformer: skills},
		{Name: BlockText, Transformer: text},
	}
	var width int
	for _, b := range blocks {
		width += b.Transformer.Width()
	}
	return &Pipeline{blocks: blocks, width: width}
}

// Width is the length of every vector Encode returns.
func (p *Pipeline) Width() int { return p.width }

// Encode builds the dense input vector for f.
func (p *Pipeline) Encode(f *types.IntermediateFeatures) []float64 {
	vec := make([]float64, p.width)
	offset := 0
	for _, b := range p.blocks {
		w := b.Transformer.Width()
		b.Transformer.Transform(f, vec[offset:offset+w:offset+w])
		offset += w
	}
	return vec
}

// Layout describes where each block sits in the encoded vector.
func (p *Pipeline) Layout() []Span {
	spans := make([]Span, 0, len(p.blocks))
	offset := 0
	for _, b := range p.blocks {
		w := b.Transformer.Width()
		spans = append(spans, Span{Name: b.Name, Offset: offset, Width: w})
		offset += w
	}
	return spans
}

// FeatureNames returns every column name in vector order.
func (p *Pipeline) FeatureNames() []string {
	names := make([]string, 0, p.width)
	for _, b := range p.blocks {
		names = append(names, b.Transformer.FeatureNames()...)
	}
	return names
}
