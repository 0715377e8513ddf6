// Package similarity scores text-pair similarity in [0,1] by combining
// token-set Jaccard overlap with an order-sensitive sequence-alignment
// ratio. Scores are symmetric and deterministic; Score(a, a) == 1.
package similarity

import (
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kljensen/snowball"

	"github.com/lenddata/morsel/pkg/morsel/normalize"
)

// Sub-score weights. Both sub-scores are ratios in [0,1], so the
// combination is bounded by construction.
const (
	jaccardWeight  = 0.6
	sequenceWeight = 0.4
)

// DefaultCacheSize bounds the prepared-text cache. Windowed
// deduplication scores one candidate against many accepted records, so
// caching amortizes normalization and tokenization.
const DefaultCacheSize = 2048

// Scorer computes pairwise text similarity.
type Scorer struct {
	norm  *normalize.Normalizer
	stops map[string]struct{}
	stem  bool
	cache *lru.Cache[string, prepared]
}

type prepared struct {
	text     string              // normalized, lowercased
	filtered map[string]struct{} // token set minus stopwords
	all      map[string]struct{} // raw token set
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithStopwords replaces the default stop-word list.
func WithStopwords(words []string) Option {
	return func(s *Scorer) {
		s.stops = make(map[string]struct{}, len(words))
		for _, w := range words {
			s.stops[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithStemming stems tokens before set comparison, so inflected forms
// ("refinancing"/"refinance") overlap.
func WithStemming() Option {
	return func(s *Scorer) { s.stem = true }
}

// WithNormalizer substitutes the normalizer used to canonicalize both
// texts before comparison.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Scorer) { s.norm = n }
}

// New creates a Scorer with the default stop-word list.
func New(opts ...Option) *Scorer {
	s := &Scorer{norm: normalize.New()}
	WithStopwords(DefaultStopwords())(s)
	for _, opt := range opts {
		opt(s)
	}
	// Only fails for a non-positive size.
	cache, _ := lru.New[string, prepared](DefaultCacheSize)
	s.cache = cache
	return s
}

// Score returns the weighted combination of Jaccard token overlap and
// sequence alignment for the pair. If either token set is empty after
// stop-word removal, the raw token sets are compared instead; if
// neither text has tokens at all, the sequence ratio alone decides.
func (s *Scorer) Score(a, b string) float64 {
	pa := s.prepare(a)
	pb := s.prepare(b)

	seq := Ratio(pa.text, pb.text)

	ta, tb := pa.filtered, pb.filtered
	if len(ta) == 0 || len(tb) == 0 {
		ta, tb = pa.all, pb.all
	}
	if len(ta) == 0 && len(tb) == 0 {
		return seq
	}

	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	jaccard := 0.0
	if union > 0 {
		jaccard = float64(inter) / float64(union)
	}

	return jaccardWeight*jaccard + sequenceWeight*seq
}

func (s *Scorer) prepare(text string) prepared {
	if p, ok := s.cache.Get(text); ok {
		return p
	}

	normed := strings.ToLower(s.norm.Normalize(text))

	p := prepared{
		text:     normed,
		filtered: make(map[string]struct{}),
		all:      make(map[string]struct{}),
	}
	for _, tok := range strings.Fields(normed) {
		// Trim punctuation from the edges so "homeready?" and
		// "homeready." compare as the same token. Internal hyphens
		// ("loan-to-value") survive.
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok == "" {
			continue
		}
		_, stop := s.stops[tok]
		if s.stem {
			if stemmed, err := snowball.Stem(tok, "english", true); err == nil {
				tok = stemmed
			}
		}
		p.all[tok] = struct{}{}
		if !stop {
			p.filtered[tok] = struct{}{}
		}
	}

	s.cache.Add(text, p)
	return p
}

// DefaultStopwords returns the stop-word list excluded from token-set
// comparison. Interrogative openers are included so two questions about
// different subjects do not look alike.
func DefaultStopwords() []string {
	return []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
		"to", "was", "will", "with", "this", "what", "when", "where",
		"who", "why", "how", "can", "could", "would", "should", "may", "might",
	}
}
