package promo

import (
	"context"
	"fmt"
	"sync"

	"shopmile/internal/model"

	"github.com/rs/zerolog"
)

// validator implements Validator over a fixed collection of code sets.
// The sets are read-only after initialisation, so lookups need no locking.
type validator struct {
	codeSets      []CodeSet
	minMatchCount int
	logger        zerolog.Logger
}

// ValidatorConfig holds configuration for the promo code validator.
type ValidatorConfig struct {
	// FilePaths is the list of promo code file paths to load.
	FilePaths []string

	// MinMatchCount is the minimum number of files a code must appear in.
	// Default: 2
	MinMatchCount int
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		FilePaths: []string{
			"data/promos/promobase1.gz",
			"data/promos/promobase2.gz",
			"data/promos/promobase3.gz",
		},
		MinMatchCount: 2,
	}
}

// NewValidator creates a new promo code validator. All code files are loaded
// concurrently at initialisation time.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}
	if config.MinMatchCount < 1 {
		config.MinMatchCount = 2
	}

	logger = logger.With().Str("component", "promo-validator").Logger()

	logger.Info().
		Int("file_count", len(config.FilePaths)).
		Int("min_match_count", config.MinMatchCount).
		Msg("initialising promo code validator")

	v := &validator{
		codeSets:      make([]CodeSet, 0, len(config.FilePaths)),
		minMatchCount: config.MinMatchCount,
		logger:        logger,
	}

	type loadResult struct {
		index int
		set   CodeSet
		err   error
	}

	resultChan := make(chan loadResult, len(config.FilePaths))
	var wg sync.WaitGroup

	for i, filePath := range config.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			set, err := loader.Load(ctx, path)
			resultChan <- loadResult{
				index: index,
				set:   set,
				err:   err,
			}
		}(i, filePath)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in order
	results := make([]loadResult, len(config.FilePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", config.FilePaths[i]).
				Msg("failed to load promo code file")
			return nil, fmt.Errorf("failed to load promo code file %s: %w", config.FilePaths[i], result.err)
		}
		v.codeSets = append(v.codeSets, result.set)
		logger.Info().
			Str("file", config.FilePaths[i]).
			Int("size", result.set.Size()).
			Msg("promo code file loaded")
	}

	totalCodes := 0
	for _, set := range v.codeSets {
		totalCodes += set.Size()
	}

	logger.Info().
		Int("total_codes", totalCodes).
		Msg("promo code validator initialised successfully")

	return v, nil
}

// Validate checks if a promo code is valid: between 8 and 10 characters and
// present in at least minMatchCount of the loaded code lists.
func (v *validator) Validate(ctx context.Context, promoCode string) error {
	// Length check first (cheap)
	if len(promoCode) < 8 || len(promoCode) > 10 {
		v.logger.Debug().
			Str("promo_code", promoCode).
			Int("length", len(promoCode)).
			Msg("promo code length invalid")
		return model.ErrInvalidPromoLength
	}

	matchCount := 0
	for i, set := range v.codeSets {
		if set.Contains(promoCode) {
			matchCount++
			if matchCount >= v.minMatchCount {
				break
			}
		}
		// Early exit once the remaining sets cannot reach the threshold
		remaining := len(v.codeSets) - i - 1
		if matchCount+remaining < v.minMatchCount {
			break
		}
	}

	if matchCount < v.minMatchCount {
		v.logger.Debug().
			Str("promo_code", promoCode).
			Int("match_count", matchCount).
			Msg("promo code not found in sufficient files")
		return model.ErrInvalidPromoCode
	}

	v.logger.Debug().
		Str("promo_code", promoCode).
		Int("match_count", matchCount).
		Msg("promo code valid")

	return nil
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.codeSets = nil
	return nil
}
