// Command jsontl translates JSON localization files using AI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/translatekit/jsontl"
	"github.com/translatekit/jsontl/cache"
	"github.com/translatekit/jsontl/document"
	"github.com/translatekit/jsontl/provider"
)

var (
	headline = color.New(color.Bold, color.FgCyan).SprintFunc()
	success  = color.New(color.FgGreen).SprintFunc()
	warn     = color.New(color.FgYellow).SprintFunc()
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("jsontl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	sourceLang := fs.String("source", "", "Source language code (default: auto-detect)")
	targets := fs.String("target", "", "Comma-separated target language codes (e.g., es,fr,de)")
	outputDir := fs.String("output", "./translations", "Output directory")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	batchSize := fs.Int("batch-size", 8, "Leaves per inner batch")
	superBatchSize := fs.Int("super-batch-size", 40, "Leaves per super-batch")
	outer := fs.Int("outer", 4, "Concurrent super-batches")
	inner := fs.Int("inner", 4, "Concurrent workers per super-batch")
	noCache := fs.Bool("no-cache", false, "Bypass cache reads (results are still written)")
	redisURL := fs.String("redis", "", "Redis URL for the durable cache (default: in-memory)")
	cacheFile := fs.String("cache-file", "", "Snapshot file giving the in-memory cache durability across runs")
	glossaryPath := fs.String("glossary", "", "YAML glossary rules file")
	prevInput := fs.String("prev-input", "", "Previous input file (diff mode)")
	prevOutput := fs.String("prev-output", "", "Previous output file (diff mode)")
	rpm := fs.Int("rpm", 0, "Aggregate provider requests per minute (0 = unlimited)")
	listLangs := fs.Bool("list-languages", false, "List supported languages and exit")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	jsonOutput := fs.Bool("json", false, "Print run summaries as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", jsontl.Name, jsontl.FullVersion())
		if jsontl.BuildDate != "" {
			fmt.Fprintf(stdout, "  built: %s\n", jsontl.BuildDate)
		}
		return nil
	}

	if *listLangs {
		fmt.Fprintln(stdout, "Supported languages:")
		for _, code := range jsontl.LanguageCodes() {
			fmt.Fprintf(stdout, "  %-8s %s\n", code, jsontl.SupportedLanguages[code])
		}
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("input file is required")
	}
	if *targets == "" {
		fs.Usage()
		return fmt.Errorf("--target is required")
	}

	inputPath := fs.Arg(0)
	doc, err := readDocument(inputPath)
	if err != nil {
		return err
	}

	// Diff mode needs both previous documents.
	var prevIn, prevOut document.Value
	diffMode := *prevInput != "" || *prevOutput != ""
	if diffMode {
		if *prevInput == "" || *prevOutput == "" {
			return fmt.Errorf("diff mode requires both --prev-input and --prev-output")
		}
		if prevIn, err = readDocument(*prevInput); err != nil {
			return err
		}
		if prevOut, err = readDocument(*prevOutput); err != nil {
			return err
		}
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
	}

	factory := provider.Factory(provider.OpenAIConfig{
		APIKey: key,
		Model:  *model,
	})
	factory = jsontl.RetryingFactory(factory, jsontl.DefaultRetryConfig())
	if *rpm > 0 {
		factory = jsontl.RateLimitedFactory(factory, jsontl.RateLimitConfig{RequestsPerMinute: *rpm})
	}

	if *redisURL != "" && *cacheFile != "" {
		return fmt.Errorf("--cache-file applies to the in-memory cache; drop it or --redis")
	}
	store, err := openCache(*redisURL)
	if err != nil {
		return err
	}
	if *cacheFile != "" {
		mem := store.(*cache.InMemoryCache)
		if _, statErr := os.Stat(*cacheFile); statErr == nil {
			if _, err := cache.RestoreSnapshotFile(*cacheFile, mem); err != nil {
				return err
			}
		}
		defer func() {
			if err := cache.WriteSnapshotFile(*cacheFile, mem, nil); err != nil {
				fmt.Fprintf(stderr, "%s saving cache snapshot: %v\n", warn("warning:"), err)
			}
		}()
	}

	var rules []jsontl.Rule
	if *glossaryPath != "" {
		if rules, err = readGlossary(*glossaryPath); err != nil {
			return err
		}
	}
	glossary, err := jsontl.NewGlossary(rules)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	summaries := make(map[string]jsontl.Summary)

	for _, target := range strings.Split(*targets, ",") {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}

		if !*quiet {
			fmt.Fprintf(stderr, "%s %s (%s)\n", headline("Translating to"), jsontl.LanguageName(target), target)
		}

		opts := []jsontl.PipelineOption{
			jsontl.WithCache(store),
			jsontl.WithCacheEnabled(!*noCache),
			jsontl.WithBatchSize(*batchSize),
			jsontl.WithSuperBatchSize(*superBatchSize),
			jsontl.WithConcurrency(*outer, *inner),
			jsontl.WithGlossary(glossary),
		}
		if *sourceLang != "" {
			opts = append(opts, jsontl.WithSourceLang(*sourceLang))
		}
		if !*quiet {
			opts = append(opts, jsontl.WithProgress(func(done, total int) {
				fmt.Fprintf(stderr, "\r  %d/%d leaves", done, total)
			}))
		}

		pipeline, err := jsontl.NewPipeline(target, factory, opts...)
		if err != nil {
			return err
		}

		start := time.Now()
		var result *jsontl.Result
		if diffMode {
			result, err = pipeline.TranslateDiff(context.Background(), doc, prevIn, prevOut)
		} else {
			result, err = pipeline.Translate(context.Background(), doc)
		}
		if err != nil {
			return fmt.Errorf("translating to %s: %w", target, err)
		}
		elapsed := time.Since(start)

		outPath := filepath.Join(*outputDir, fmt.Sprintf("%s.%s.json", base, target))
		if err := writeDocument(outPath, result.Document); err != nil {
			return err
		}
		summaries[target] = result.Summary

		if !*quiet {
			fmt.Fprintf(stderr, "\r%s %s in %v\n", success("✓"), outPath, elapsed.Round(time.Millisecond))
			printSummary(stderr, result.Summary)
		}
	}

	if *jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaryOutput(summaries))
	}

	return nil
}

func printSummary(w io.Writer, s jsontl.Summary) {
	fmt.Fprintf(w, "  Leaves:         %d\n", s.Leaves)
	fmt.Fprintf(w, "  From cache:     %d\n", s.CacheHits)
	fmt.Fprintf(w, "  Provider calls: %d\n", s.ProviderCalls)
	if s.Reused > 0 {
		fmt.Fprintf(w, "  Reused:         %d\n", s.Reused)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(w, "  %s       %d\n", warn("Failures:"), len(s.Failures))
		for _, issue := range s.Failures {
			fmt.Fprintf(w, "    %s: %v\n", issue.Path, issue.Err)
		}
	}
	if len(s.Warnings) > 0 {
		fmt.Fprintf(w, "  %s       %d\n", warn("Warnings:"), len(s.Warnings))
		for _, issue := range s.Warnings {
			fmt.Fprintf(w, "    %s: %v\n", issue.Path, issue.Err)
		}
	}
}

// summaryJSON is the per-target summary in --json output.
type summaryJSON struct {
	Leaves        int      `json:"leaves"`
	CacheHits     int      `json:"cache_hits"`
	ProviderCalls int      `json:"provider_calls"`
	Reused        int      `json:"reused,omitempty"`
	Failures      []string `json:"failures,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

func summaryOutput(summaries map[string]jsontl.Summary) map[string]summaryJSON {
	out := make(map[string]summaryJSON, len(summaries))
	for target, s := range summaries {
		entry := summaryJSON{
			Leaves:        s.Leaves,
			CacheHits:     s.CacheHits,
			ProviderCalls: s.ProviderCalls,
			Reused:        s.Reused,
		}
		for _, issue := range s.Failures {
			entry.Failures = append(entry.Failures, fmt.Sprintf("%s: %v", issue.Path, issue.Err))
		}
		for _, issue := range s.Warnings {
			entry.Warnings = append(entry.Warnings, fmt.Sprintf("%s: %v", issue.Path, issue.Err))
		}
		out[target] = entry
	}
	return out
}

func readDocument(path string) (document.Value, error) {
	f, err := os.Open(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	doc, err := document.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

func writeDocument(path string, doc document.Value) error {
	f, err := os.Create(path) // #nosec G304 - CLI tool writes user-specified files
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return document.Encode(f, doc)
}

func readGlossary(path string) ([]jsontl.Rule, error) {
	f, err := os.Open(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("reading glossary: %w", err)
	}
	defer f.Close()

	return jsontl.LoadRules(f)
}

func openCache(redisURL string) (jsontl.Cache, error) {
	if redisURL == "" {
		return cache.NewInMemoryCache(0), nil
	}
	store, err := cache.NewRedisCache(cache.RedisConfig{URL: redisURL})
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return store, nil
}
