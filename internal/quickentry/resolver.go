package quickentry

import (
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/serrors"
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/width"
)

// ResolverOptions tune category matching.
type ResolverOptions struct {
	Threshold         float64
	NameScoreCap      float64
	SynonymScoreCap   float64
	SynonymExactScore float64
	MaxSuggestions    int
	Timeout           time.Duration
}

// NewResolverOptions extracts the resolver settings from Options.
func NewResolverOptions(opts Options) ResolverOptions {
	return ResolverOptions{
		Threshold:         opts.FuzzyThreshold,
		NameScoreCap:      opts.NameScoreCap,
		SynonymScoreCap:   opts.SynonymScoreCap,
		SynonymExactScore: opts.SynonymExactScore,
		MaxSuggestions:    opts.MaxSuggestions,
		Timeout:           opts.DirectoryTimeout,
	}
}

// Resolver maps a category phrase onto a record of the user's directory.
type Resolver struct {
	directory CategoryDirectory
	options   ResolverOptions
}

// NewResolver returns a Resolver reading categories from directory.
func NewResolver(directory CategoryDirectory, options ResolverOptions) *Resolver {
	return &Resolver{directory: directory, options: options}
}

// Resolve loads the user's directory and matches phrase against it. A failed
// or timed out fetch yields ErrDirectoryUnavailable; a miss yields
// ErrCategoryNotFound with suggestions attached.
func (r *Resolver) Resolve(ctx context.Context, phrase string, userID domain.UserID) (domain.MatchResult, error) {
	if r.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.options.Timeout)
		defer cancel()
	}

	categories, err := r.directory.GetCategories(ctx, userID)
	if err != nil {
		return domain.MatchResult{}, serrors.Wrap(ErrDirectoryUnavailable, err, "could not load categories")
	}

	if match, ok := r.Match(phrase, categories); ok {
		return match, nil
	}

	return domain.MatchResult{}, reject(ErrCategoryNotFound, &Detail{
		Input:       phrase,
		Suggestions: r.Suggest(phrase, categories),
	}, "no category matches %q", phrase)
}

// Match resolves phrase against categories without any I/O. The exact phase
// compares the whole phrase with every name and then every synonym; the fuzzy
// phase scores names and synonyms contained in the phrase by their share of
// the phrase's length.
func (r *Resolver) Match(phrase string, categories []domain.CategoryRecord) (domain.MatchResult, bool) {
	needle := normalize(phrase)
	if needle == "" {
		return domain.MatchResult{}, false
	}

	for _, c := range categories {
		if normalize(c.SubName) == needle {
			return domain.MatchResult{Category: c, Score: 1, MatchType: domain.MatchExact}, true
		}
	}
	for _, c := range categories {
		for _, syn := range c.Synonyms {
			if normalize(syn) == needle {
				return domain.MatchResult{
					Category:  c,
					Score:     r.options.SynonymExactScore,
					MatchType: domain.MatchSynonymExact,
				}, true
			}
		}
	}

	var (
		best  domain.MatchResult
		found bool
	)
	consider := func(c domain.CategoryRecord, candidate string, limit float64, t domain.MatchType) {
		candidate = normalize(candidate)
		if candidate == "" || !strings.Contains(needle, candidate) {
			return
		}
		score := min(float64(utf8.RuneCountInString(candidate))/float64(utf8.RuneCountInString(needle)), limit)
		// strictly greater: ties keep the first candidate seen
		if !found || score > best.Score {
			best, found = domain.MatchResult{Category: c, Score: score, MatchType: t}, true
		}
	}
	for _, c := range categories {
		consider(c, c.SubName, r.options.NameScoreCap, domain.MatchContainsSubName)
		for _, syn := range c.Synonyms {
			consider(c, syn, r.options.SynonymScoreCap, domain.MatchContainsSynonym)
		}
	}

	if !found || best.Score < r.options.Threshold {
		return domain.MatchResult{}, false
	}

	return best, true
}

// Suggest returns up to MaxSuggestions category names closest to phrase by
// edit distance over names and synonyms. Candidates sharing nothing with the
// phrase are left out.
func (r *Resolver) Suggest(phrase string, categories []domain.CategoryRecord) []string {
	if r.options.MaxSuggestions <= 0 {
		return nil
	}
	needle := normalize(phrase)
	if needle == "" {
		return nil
	}

	type suggestion struct {
		name     string
		distance int
	}
	var ranked []suggestion
	seen := make(map[string]int, len(categories))
	for _, c := range categories {
		for _, candidate := range append([]string{c.SubName}, c.Synonyms...) {
			candidate = normalize(candidate)
			if candidate == "" {
				continue
			}
			d := levenshtein.ComputeDistance(needle, candidate)
			if d >= max(utf8.RuneCountInString(needle), utf8.RuneCountInString(candidate)) {
				continue
			}
			if i, ok := seen[c.SubName]; ok {
				ranked[i].distance = min(ranked[i].distance, d)

				continue
			}
			seen[c.SubName] = len(ranked)
			ranked = append(ranked, suggestion{name: c.SubName, distance: d})
		}
	}

	slices.SortStableFunc(ranked, func(a, b suggestion) int { return a.distance - b.distance })

	names := make([]string, 0, min(len(ranked), r.options.MaxSuggestions))
	for _, s := range ranked[:min(len(ranked), r.options.MaxSuggestions)] {
		names = append(names, s.name)
	}

	return names
}

// normalize folds width and case and trims whitespace.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(width.Fold.String(s)))
}
