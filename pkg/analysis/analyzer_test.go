package analysis

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/freddie-garnett-dix/speech-metrics-app/pkg/audio"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestAnalyzer_EndToEndScenario(t *testing.T) {
	t.Parallel()

	// 60 seconds of audio with a 12-token transcript.
	pcm := makePCM(8000, 480000, 12000)
	transcript := "um so basically I think you know this is this is correct"

	res, err := newTestAnalyzer(t).Analyze(context.Background(), pcm, transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.WordCount != 12 {
		t.Errorf("WordCount = %d, want 12", res.WordCount)
	}
	// Single-word hits: um, basically. Phrase hits: "you know" once at 2
	// word-equivalents. Total filler word-equivalent: 4.
	if res.Fillers.WordEquivalents != 4 {
		t.Errorf("filler WordEquivalents = %d, want 4", res.Fillers.WordEquivalents)
	}
	if math.Abs(res.FillerPercent-100.0/3) > 0.01 {
		t.Errorf("FillerPercent = %v, want ≈33.33", res.FillerPercent)
	}
	// "this is this is" alternates — no adjacent duplicates anywhere.
	if res.Repetition.ImmediateCount != 0 {
		t.Errorf("ImmediateCount = %d, want 0", res.Repetition.ImmediateCount)
	}
	if !res.Pace.Valid || math.Abs(res.Pace.WordsPerMinute-12) > 1e-9 {
		t.Errorf("Pace = %+v, want valid 12 WPM", res.Pace)
	}
	if math.Abs(res.DurationSeconds-60) > 1e-9 {
		t.Errorf("DurationSeconds = %v, want 60", res.DurationSeconds)
	}
}

func TestAnalyzer_Idempotent(t *testing.T) {
	t.Parallel()

	pcm := concatPCM(
		makePCM(16000, 16000, 14000),
		makePCM(16000, 8000, 0),
		makePCM(16000, 16000, 14000),
	)
	transcript := "well um I think think this works. You know it does!"
	a := newTestAnalyzer(t)

	first, err := a.Analyze(context.Background(), pcm, transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Analyze(context.Background(), pcm, transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over identical input differ:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzer_EmptyTranscript(t *testing.T) {
	t.Parallel()

	pcm := makePCM(16000, 16000, 14000)
	res, err := newTestAnalyzer(t).Analyze(context.Background(), pcm, "")
	if err != nil {
		t.Fatalf("an empty transcript is valid degenerate input, got error: %v", err)
	}

	if res.WordCount != 0 {
		t.Errorf("WordCount = %d, want 0", res.WordCount)
	}
	if res.FillerPercent != 0 || res.RepetitionPercent != 0 {
		t.Errorf("percents = %v / %v, want 0 / 0", res.FillerPercent, res.RepetitionPercent)
	}
	// Duration is real, so 0 WPM is a valid reading here.
	if !res.Pace.Valid || res.Pace.WordsPerMinute != 0 {
		t.Errorf("Pace = %+v, want valid 0 WPM", res.Pace)
	}
}

func TestAnalyzer_ZeroDurationAudio(t *testing.T) {
	t.Parallel()

	// A zero sample rate decodes to zero duration; metrics must degrade to
	// typed zero/invalid values, never a division fault.
	pcm := &audio.PCMAudio{Samples: []int32{1, 2, 3}, SampleRate: 0, Channels: 1, BitsPerSample: 16}
	res, err := newTestAnalyzer(t).Analyze(context.Background(), pcm, "three words here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DurationSeconds != 0 {
		t.Errorf("DurationSeconds = %v, want 0", res.DurationSeconds)
	}
	if res.Pace.Valid {
		t.Errorf("Pace = %+v, want invalid", res.Pace)
	}
	if res.PauseSummary.SilencePercent != 0 {
		t.Errorf("SilencePercent = %v, want 0", res.PauseSummary.SilencePercent)
	}
}

func TestAnalyzer_NilAudio(t *testing.T) {
	t.Parallel()

	if _, err := newTestAnalyzer(t).Analyze(context.Background(), nil, "text"); err == nil {
		t.Error("expected an error for nil audio")
	}
}

func TestAnalyzer_LongPauseBuckets(t *testing.T) {
	t.Parallel()

	// Gaps of 1.2 s and 2.4 s against buckets [1, 2].
	pcm := concatPCM(
		makePCM(16000, 16000, 14000),
		makePCM(16000, 19200, 0), // 1.2s
		makePCM(16000, 16000, 14000),
		makePCM(16000, 38400, 0), // 2.4s
		makePCM(16000, 16000, 14000),
	)
	cfg := DefaultConfig()
	cfg.Silence.Mode = ThresholdAbsolute
	cfg.Silence.ThresholdDB = -40
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := a.Analyze(context.Background(), pcm, "some words")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.LongPauses) != 2 {
		t.Fatalf("got %d buckets, want 2", len(res.LongPauses))
	}
	if res.LongPauses[0].ThresholdSeconds != 1 || res.LongPauses[0].Count != 2 {
		t.Errorf("bucket ≥1s = %+v, want count 2", res.LongPauses[0])
	}
	if res.LongPauses[1].ThresholdSeconds != 2 || res.LongPauses[1].Count != 1 {
		t.Errorf("bucket ≥2s = %+v, want count 1", res.LongPauses[1])
	}
}

func TestAnalyzer_NegativeTopWordsDisablesRanking(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.TopWords = -1
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := a.Analyze(context.Background(), makePCM(16000, 16000, 14000), "cat cat cat dog")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Repetition.TopWords != nil {
		t.Errorf("TopWords = %v, want nil when the ranking is disabled", res.Repetition.TopWords)
	}
	// Excess counting is independent of the ranking switch.
	if res.Repetition.ExcessOccurrences != 2 {
		t.Errorf("ExcessOccurrences = %d, want 2", res.Repetition.ExcessOccurrences)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.WindowMs = 0 }},
		{"bad mode", func(c *Config) { c.Silence.Mode = "adaptive" }},
		{"negative offset", func(c *Config) { c.Silence.OffsetDB = -3 }},
		{"negative min pause", func(c *Config) { c.Silence.MinPauseMs = -1 }},
		{"non-positive bucket", func(c *Config) { c.LongPauseThresholds = []float64{0} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestResult_RecordShape(t *testing.T) {
	t.Parallel()

	pcm := makePCM(8000, 480000, 12000)
	res, err := newTestAnalyzer(t).Analyze(context.Background(), pcm, "um you know fine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := res.Record()
	if rec["word_count"] != 4 {
		t.Errorf("word_count = %v, want 4", rec["word_count"])
	}
	fillers, ok := rec["fillers"].(map[string]any)
	if !ok {
		t.Fatalf("fillers is %T, want map", rec["fillers"])
	}
	if fillers["word_equivalents"] != 3 {
		t.Errorf("fillers.word_equivalents = %v, want 3", fillers["word_equivalents"])
	}
	if _, ok := rec["pauses"].(map[string]any); !ok {
		t.Errorf("pauses is %T, want map", rec["pauses"])
	}
}

func TestResult_RecordDeterministicPatternOrder(t *testing.T) {
	t.Parallel()

	// Enough distinct patterns that map iteration order would show through.
	res := &Result{
		Fillers: FillerMetrics{
			ByPattern: map[string]FillerMatch{
				"um":        {Pattern: "um", Occurrences: 2, WordEquivalent: 2},
				"uh":        {Pattern: "uh", Occurrences: 1, WordEquivalent: 1},
				"like":      {Pattern: "like", Occurrences: 3, WordEquivalent: 3},
				"you know":  {Pattern: "you know", Occurrences: 1, WordEquivalent: 2},
				"sort of":   {Pattern: "sort of", Occurrences: 2, WordEquivalent: 4},
				"basically": {Pattern: "basically", Occurrences: 1, WordEquivalent: 1},
			},
		},
	}

	first := res.Record()
	for range 10 {
		if !reflect.DeepEqual(res.Record(), first) {
			t.Fatal("repeated Record() calls on one result differ")
		}
	}

	got := first["fillers"].(map[string]any)["patterns"].([]map[string]any)
	want := []string{"basically", "like", "sort of", "uh", "um", "you know"}
	if len(got) != len(want) {
		t.Fatalf("got %d patterns, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i]["pattern"] != w {
			t.Errorf("patterns[%d] = %v, want %q", i, got[i]["pattern"], w)
		}
	}
}

func TestResult_RecordUndefinedWPM(t *testing.T) {
	t.Parallel()

	pcm := &audio.PCMAudio{SampleRate: 0, Channels: 1, BitsPerSample: 16}
	res, err := newTestAnalyzer(t).Analyze(context.Background(), pcm, "words exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Record()["words_per_minute"]; got != nil {
		t.Errorf("words_per_minute = %v, want nil for an unknowable pace", got)
	}
}
