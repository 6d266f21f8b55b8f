package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/shingle"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxFeatures caps the TF-IDF vocabulary when no explicit limit
// is configured.
const DefaultMaxFeatures = 5000

// Vectorizer turns item text into TF-IDF feature rows. The token chain
// is built from Bleve analysis components: unicode tokenization,
// lowercasing, English stopword removal, and word shingles so both
// unigrams and bigrams enter the vocabulary.
//
// Fit selects the vocabulary (capped at MaxFeatures by document
// frequency) and computes smoothed idf weights; Transform emits
// L2-normalized rows so dot products are cosine similarities.
type Vectorizer struct {
	MaxFeatures int

	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter

	vocab map[string]int
	terms []string
	idf   []float64
}

// NewVectorizer builds an unfitted vectorizer. maxFeatures <= 0 selects
// DefaultMaxFeatures.
func NewVectorizer(maxFeatures int) (*Vectorizer, error) {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	stopMap := analysis.NewTokenMap()
	if err := stopMap.LoadBytes(en.EnglishStopWords); err != nil {
		return nil, fmt.Errorf("load english stopwords: %w", err)
	}

	return &Vectorizer{
		MaxFeatures: maxFeatures,
		tokenizer:   unicode.NewUnicodeTokenizer(),
		filters: []analysis.TokenFilter{
			lowercase.NewLowerCaseFilter(),
			stop.NewStopTokensFilter(stopMap),
			shingle.NewShingleFilter(2, 2, true, " ", "_"),
		},
	}, nil
}

// Tokenize runs one document through the analysis chain.
func (v *Vectorizer) Tokenize(text string) []string {
	stream := v.tokenizer.Tokenize([]byte(text))
	for _, filter := range v.filters {
		stream = filter.Filter(stream)
	}

	terms := make([]string, 0, len(stream))
	for _, token := range stream {
		terms = append(terms, string(token.Term))
	}
	return terms
}

// Fitted reports whether Fit has selected a vocabulary.
func (v *Vectorizer) Fitted() bool {
	return v.vocab != nil
}

// VocabularySize returns the number of selected terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Fit selects the vocabulary and idf weights from the corpus.
func (v *Vectorizer) Fit(docs []string) {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.Tokenize(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			docFreq[term]++
		}
	}

	// Highest document frequency first; ties broken lexicographically so
	// fitting is deterministic.
	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if docFreq[terms[i]] != docFreq[terms[j]] {
			return docFreq[terms[i]] > docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}

	v.terms = terms
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed idf keeps terms present in every document from
		// vanishing entirely.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
}

// Transform produces one L2-normalized TF-IDF row per document. Returns
// nil when the vectorizer is unfitted or the vocabulary is empty.
func (v *Vectorizer) Transform(docs []string) *mat.Dense {
	if !v.Fitted() || len(v.terms) == 0 || len(docs) == 0 {
		return nil
	}

	out := mat.NewDense(len(docs), len(v.terms), nil)
	for i, doc := range docs {
		counts := make(map[int]int)
		for _, term := range v.Tokenize(doc) {
			if j, ok := v.vocab[term]; ok {
				counts[j]++
			}
		}

		var norm float64
		for j, count := range counts {
			w := float64(count) * v.idf[j]
			out.Set(i, j, w)
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range counts {
				out.Set(i, j, out.At(i, j)/norm)
			}
		}
	}
	return out
}

// FitTransform fits the vocabulary and transforms the same corpus.
func (v *Vectorizer) FitTransform(docs []string) *mat.Dense {
	v.Fit(docs)
	return v.Transform(docs)
}

// State exports the fitted vocabulary for snapshot persistence.
func (v *Vectorizer) State() ([]string, []float64) {
	return v.terms, v.idf
}

// Restore rehydrates a fitted vectorizer from snapshot state.
func (v *Vectorizer) Restore(terms []string, idf []float64) {
	v.terms = terms
	v.idf = idf
	v.vocab = make(map[string]int, len(terms))
	for i, term := range terms {
		v.vocab[term] = i
	}
}
