// Package analysis implements the speech delivery metrics engine: pause
// structure from signal energy, plus pace, filler density, and word
// repetition from transcript text.
//
// The entry point is [Analyzer]: construct one with [New] and a validated
// [Config], then call [Analyzer.Analyze] once per recording. The pause
// branch (windowed RMS → silence segmentation → pause aggregation) and the
// text branch (tokenization → filler/repetition/pace) have no data
// dependency on each other and run concurrently inside a single Analyze
// call.
//
// An Analyzer is immutable after construction and safe for concurrent use;
// every Analyze call operates on its own inputs and produces its own
// [Result], so independent recordings can be analysed in parallel without
// locking.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/audio"
)

// ErrInvalidConfig is returned by [New] when the configuration cannot
// produce a meaningful analysis. Validation happens before any computation —
// a bad filler pattern or a non-positive window never surfaces mid-run.
var ErrInvalidConfig = errors.New("analysis: invalid configuration")

// DefaultFillerWords are the single-token fillers counted when the config
// does not supply its own list.
var DefaultFillerWords = []string{
	"um", "uh", "erm", "er", "emm", "err",
	"ah", "like", "basically", "actually", "literally",
}

// DefaultFillerPhrases are the multi-word fillers counted when the config
// does not supply its own list. Each hit is weighted by the phrase's word
// count.
var DefaultFillerPhrases = []string{
	"you know",
	"sort of",
	"kind of",
}

// DefaultStopwords are the function words removed before frequency-based
// repetition analysis.
var DefaultStopwords = []string{
	"a", "an", "the", "and", "or", "but", "so", "if", "then",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "them",
	"my", "your", "his", "its", "our", "their", "this", "that", "these", "those",
	"is", "am", "are", "was", "were", "be", "been", "being",
	"do", "does", "did", "have", "has", "had",
	"will", "would", "can", "could", "shall", "should", "may", "might", "must",
	"to", "of", "in", "on", "at", "by", "for", "with", "from", "as",
	"not", "no", "yes", "what", "which", "who", "how", "when", "where", "why",
}

// Config is the full parameter surface of the engine. Everything here is
// data, not forked logic: tuning lists and thresholds never requires
// algorithm changes.
type Config struct {
	// WindowMs is the energy analysis window duration in milliseconds.
	WindowMs int `yaml:"window_ms"`

	// Silence configures the pause detector.
	Silence SilenceConfig `yaml:"silence"`

	// LongPauseThresholds, in seconds, select the bucket counts reported in
	// the result (e.g. [1, 2] reports pauses ≥ 1 s and ≥ 2 s).
	LongPauseThresholds []float64 `yaml:"long_pause_thresholds"`

	// FillerWords and FillerPhrases override the default filler lists when
	// non-empty.
	FillerWords   []string `yaml:"filler_words"`
	FillerPhrases []string `yaml:"filler_phrases"`

	// Stopwords overrides the default stopword list when non-empty.
	Stopwords []string `yaml:"stopwords"`

	// TopWords is the length of the ranked content-word list in the result.
	// A negative value disables the ranking entirely. (In YAML configs loaded
	// through internal/config, 0 means "use the default"; pass -1 to turn the
	// list off.)
	TopWords int `yaml:"top_words"`
}

// DefaultConfig returns the engine defaults: 20 ms windows, relative
// silence threshold 10 dB below the clip mean, 300 ms minimum pause, long
// pause buckets at 1 s and 2 s, and the default filler/stopword lists.
func DefaultConfig() Config {
	return Config{
		WindowMs: 20,
		Silence: SilenceConfig{
			Mode:        ThresholdRelative,
			ThresholdDB: -40,
			OffsetDB:    10,
			MinPauseMs:  300,
		},
		LongPauseThresholds: []float64{1, 2},
		FillerWords:         DefaultFillerWords,
		FillerPhrases:       DefaultFillerPhrases,
		Stopwords:           DefaultStopwords,
		TopWords:            5,
	}
}

// Validate checks cfg and returns a joined error listing every problem found.
func (cfg Config) Validate() error {
	var errs []error

	if cfg.WindowMs <= 0 {
		errs = append(errs, fmt.Errorf("window_ms %d must be positive", cfg.WindowMs))
	}
	if !cfg.Silence.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("silence.mode %q is invalid; valid values: absolute, relative", cfg.Silence.Mode))
	}
	if cfg.Silence.Mode == ThresholdRelative && cfg.Silence.OffsetDB < 0 {
		errs = append(errs, fmt.Errorf("silence.offset_db %v must not be negative", cfg.Silence.OffsetDB))
	}
	if cfg.Silence.MinPauseMs < 0 {
		errs = append(errs, fmt.Errorf("silence.min_pause_ms %d must not be negative", cfg.Silence.MinPauseMs))
	}
	for _, th := range cfg.LongPauseThresholds {
		if th <= 0 {
			errs = append(errs, fmt.Errorf("long_pause_thresholds entry %v must be positive", th))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Analyzer runs the full metrics pipeline. Construct with [New]; the zero
// value is not usable.
type Analyzer struct {
	cfg       Config
	filler    *FillerDetector
	stopwords map[string]struct{}
}

// New validates cfg, compiles the filler patterns, and returns a ready
// Analyzer. All configuration failures surface here, wrapped in
// [ErrInvalidConfig]; Analyze itself cannot fail on pattern state.
func New(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filler, err := NewFillerDetector(cfg.FillerWords, cfg.FillerPhrases)
	if err != nil {
		return nil, err
	}

	stopwords := make(map[string]struct{}, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		stopwords[strings.ToLower(w)] = struct{}{}
	}

	return &Analyzer{
		cfg:       cfg,
		filler:    filler,
		stopwords: stopwords,
	}, nil
}

// Config returns the configuration the Analyzer was built with.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze computes the complete metrics record for one recording.
//
// pcm must be decoded audio; a nil pcm is a caller bug and returns an error
// because pause metrics are meaningless without a signal. transcript may be
// empty — word-count-dependent metrics are then zero and the pace is
// invalid-or-zero, never an error: "no input" is a valid degenerate case,
// distinct from malformed input.
//
// The pause branch and the text branch run concurrently; neither can fail,
// so the only error paths are the nil-audio guard and ctx cancellation.
func (a *Analyzer) Analyze(ctx context.Context, pcm *audio.PCMAudio, transcript string) (*Result, error) {
	if pcm == nil {
		return nil, errors.New("analysis: nil audio")
	}

	duration := pcm.Duration()
	res := &Result{
		DurationSeconds: duration,
		TranscriptText:  transcript,
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		windows := ComputeWindows(pcm, a.cfg.WindowMs)
		pauses := DetectPauses(windows, a.cfg.Silence)
		res.PauseSummary = SummarizePauses(pauses, duration)

		res.LongPauses = make([]PauseBucket, 0, len(a.cfg.LongPauseThresholds))
		for _, th := range a.cfg.LongPauseThresholds {
			res.LongPauses = append(res.LongPauses, PauseBucket{
				ThresholdSeconds: th,
				Count:            res.PauseSummary.CountAtOrAbove(th),
			})
		}
		return nil
	})

	g.Go(func() error {
		tokens := Tokenize(transcript)
		res.WordCount = len(tokens)
		res.SentenceCount = len(Sentences(transcript))
		res.Pace = CalculatePace(res.WordCount, duration)

		res.Fillers = a.filler.Detect(transcript, tokens)
		if res.WordCount > 0 {
			res.FillerPercent = float64(res.Fillers.WordEquivalents) / float64(res.WordCount) * 100
		}

		res.Repetition.ImmediateCount = ImmediateRepetitions(tokens)
		res.Repetition.ExcessOccurrences, res.Repetition.TopWords =
			FrequencyRepetition(tokens, a.stopwords, a.cfg.TopWords)
		if res.WordCount > 0 {
			res.RepetitionPercent = float64(res.Repetition.ImmediateCount) / float64(res.WordCount) * 100
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
