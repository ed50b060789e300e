package config

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	scerrors "github.com/standardbeagle/semcouple/internal/errors"
	"github.com/standardbeagle/semcouple/internal/semantic"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Every offending section is reported: the result is a MultiError of
// ConfigErrors. Defaults are applied only to a valid configuration.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	var errs []error

	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		errs = append(errs, scerrors.NewConfigError("project", cfg.Project.Root, err))
	}

	if err := v.validateCorpusConfig(&cfg.Corpus); err != nil {
		errs = append(errs, scerrors.NewConfigError("corpus", "", err))
	}

	if err := v.validateAnalysisConfig(&cfg.Analysis); err != nil {
		errs = append(errs, scerrors.NewConfigError("analysis", "", err))
	}

	if cfg.Performance.ParallelFileWorkers < 0 {
		errs = append(errs, scerrors.NewConfigError("performance", fmt.Sprint(cfg.Performance.ParallelFileWorkers),
			errors.New("parallel_file_workers cannot be negative")))
	}

	if cfg.Output.TopK < 0 {
		errs = append(errs, scerrors.NewConfigError("output", fmt.Sprint(cfg.Output.TopK),
			errors.New("top_k cannot be negative")))
	}

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, scerrors.NewConfigError("watch", fmt.Sprint(cfg.Watch.DebounceMs),
			errors.New("debounce_ms cannot be negative")))
	}

	errs = append(errs, v.validatePatterns("include", cfg.Include)...)
	errs = append(errs, v.validatePatterns("exclude", cfg.Exclude)...)

	if err := scerrors.NewMultiError(errs).ErrorOrNil(); err != nil {
		return err
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateCorpusConfig(c *Corpus) error {
	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size cannot be negative, got %d", c.MaxFileSize)
	}
	if c.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("max_file_size should not exceed 100MB, got %d", c.MaxFileSize)
	}
	return nil
}

func (v *Validator) validateAnalysisConfig(a *Analysis) error {
	if a.StemMinLength < 0 {
		return fmt.Errorf("stem_min_length cannot be negative, got %d", a.StemMinLength)
	}
	if a.SplitterCacheSize < 0 {
		return fmt.Errorf("splitter_cache_size cannot be negative, got %d", a.SplitterCacheSize)
	}
	stemmer := semantic.NewStemmer(a.Stemming, "porter2", a.StemMinLength, a.StemExclusions)
	return stemmer.ValidateConfig()
}

func (v *Validator) validatePatterns(field string, patterns []string) []error {
	var errs []error
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, scerrors.NewConfigError(field, p, errors.New("invalid glob pattern")))
		}
	}
	return errs
}

// setSmartDefaults fills zero values that mean "auto"
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = cfg.Workers()
	}
	if cfg.Analysis.SplitterCacheSize == 0 {
		cfg.Analysis.SplitterCacheSize = DefaultSplitterCacheSize
	}
	if cfg.Output.TopK == 0 {
		cfg.Output.TopK = DefaultTopK
	}
	if cfg.Output.DumpDir == "" {
		cfg.Output.DumpDir = DefaultDumpDir
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = DefaultDebounceMs
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
