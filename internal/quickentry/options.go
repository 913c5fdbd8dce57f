package quickentry

import (
	"bookkeeper/internal/config"
	"fmt"
	"time"
	_ "time/tzdata" // Asia/Taipei must resolve on hosts without zoneinfo
)

// Defaults used when a setting is left at its zero value.
const (
	DefaultMinAmountDigits   = 3
	DefaultFuzzyThreshold    = 0.7
	DefaultNameScoreCap      = 0.9
	DefaultSynonymScoreCap   = 0.95
	DefaultSynonymExactScore = 0.99
	DefaultTimezone          = "Asia/Taipei"
	DefaultDirectoryTimeout  = 50 * time.Millisecond
	DefaultMaxSuggestions    = 3
	DefaultMaxAttempts       = 5
	DefaultIncomeMajorCode   = "4"
)

// Options tune parsing, category resolution, id allocation and confirmation
// delivery. They are typically derived from application configuration.
type Options struct {
	// MinAmountDigits is the minimum length of a digit run to be preferred
	// as the amount over shorter runs.
	MinAmountDigits int

	// FuzzyThreshold is the lowest fuzzy score accepted as a match.
	FuzzyThreshold float64
	// NameScoreCap caps the fuzzy score of a category name found in the phrase.
	NameScoreCap float64
	// SynonymScoreCap caps the fuzzy score of a synonym found in the phrase.
	SynonymScoreCap float64
	// SynonymExactScore is the score of a phrase equal to a synonym. It must
	// stay below 1, which is reserved for exact name matches.
	SynonymExactScore float64
	// DirectoryTimeout bounds a single category directory fetch.
	DirectoryTimeout time.Duration
	// MaxSuggestions limits the category names proposed on a miss.
	MaxSuggestions int

	// Location is used for id date parts and displayed timestamps.
	Location *time.Location
	// AllowFallbackID stores entries under a timestamp id when the sequence
	// store is unavailable instead of rejecting them.
	AllowFallbackID bool
	// IncomeMajorCodes are major-code prefixes whose categories are income.
	IncomeMajorCodes []string

	// NotifyConfirmations enqueues a confirmation job for every recorded entry.
	NotifyConfirmations bool
	// MaxAttempts is the number of delivery attempts of a confirmation job.
	MaxAttempts int
}

// DefaultOptions returns Options populated with the package defaults.
func DefaultOptions() Options {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.FixedZone("CST", 8*60*60)
	}

	return Options{
		MinAmountDigits:   DefaultMinAmountDigits,
		FuzzyThreshold:    DefaultFuzzyThreshold,
		NameScoreCap:      DefaultNameScoreCap,
		SynonymScoreCap:   DefaultSynonymScoreCap,
		SynonymExactScore: DefaultSynonymExactScore,
		DirectoryTimeout:  DefaultDirectoryTimeout,
		MaxSuggestions:    DefaultMaxSuggestions,
		Location:          loc,
		IncomeMajorCodes:  []string{DefaultIncomeMajorCode},
		MaxAttempts:       DefaultMaxAttempts,
	}
}

// withDefaults fills every zero setting from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MinAmountDigits <= 0 {
		o.MinAmountDigits = def.MinAmountDigits
	}
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = def.FuzzyThreshold
	}
	if o.NameScoreCap <= 0 {
		o.NameScoreCap = def.NameScoreCap
	}
	if o.SynonymScoreCap <= 0 {
		o.SynonymScoreCap = def.SynonymScoreCap
	}
	if o.SynonymExactScore <= 0 {
		o.SynonymExactScore = def.SynonymExactScore
	}
	if o.DirectoryTimeout <= 0 {
		o.DirectoryTimeout = def.DirectoryTimeout
	}
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = def.MaxSuggestions
	}
	if o.Location == nil {
		o.Location = def.Location
	}
	if len(o.IncomeMajorCodes) == 0 {
		o.IncomeMajorCodes = def.IncomeMajorCodes
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = def.MaxAttempts
	}

	return o
}

// validate rejects settings outside the ranges the resolver relies on.
func (o Options) validate() error {
	if o.SynonymExactScore >= 1 {
		return fmt.Errorf("synonym exact score must be below 1, got %v", o.SynonymExactScore)
	}
	if o.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must not exceed 1, got %v", o.FuzzyThreshold)
	}

	return nil
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) (Options, error) {
	opts := DefaultOptions()
	qe := cfg.QuickEntry

	if qe.MinAmountDigits > 0 {
		opts.MinAmountDigits = qe.MinAmountDigits
	}
	if qe.FuzzyThreshold > 0 {
		opts.FuzzyThreshold = qe.FuzzyThreshold
	}
	if qe.NameScoreCap > 0 {
		opts.NameScoreCap = qe.NameScoreCap
	}
	if qe.SynonymScoreCap > 0 {
		opts.SynonymScoreCap = qe.SynonymScoreCap
	}
	if qe.SynonymExactScore > 0 {
		opts.SynonymExactScore = qe.SynonymExactScore
	}
	if qe.DirectoryTimeout > 0 {
		opts.DirectoryTimeout = qe.DirectoryTimeout
	}
	if qe.MaxSuggestions > 0 {
		opts.MaxSuggestions = qe.MaxSuggestions
	}
	if qe.Timezone != "" {
		loc, err := time.LoadLocation(qe.Timezone)
		if err != nil {
			return Options{}, fmt.Errorf("could not load timezone %q: %w", qe.Timezone, err)
		}
		opts.Location = loc
	}
	if len(qe.IncomeMajorCodes) > 0 {
		opts.IncomeMajorCodes = qe.IncomeMajorCodes
	}
	opts.AllowFallbackID = qe.AllowFallbackID

	opts.NotifyConfirmations = cfg.Notifier.Enabled
	if cfg.Notifier.MaxAttempts > 0 {
		opts.MaxAttempts = cfg.Notifier.MaxAttempts
	}
	if err := opts.validate(); err != nil {
		return Options{}, err
	}

	return opts, nil
}
