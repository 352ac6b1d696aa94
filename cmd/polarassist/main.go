package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"polarassist/internal/assist"
	"polarassist/internal/config"
	"polarassist/internal/domain"
	"polarassist/internal/index"
	"polarassist/internal/provider"
	"polarassist/internal/retrieval"
	"polarassist/internal/search"
)

var (
	// Global flags
	verbose    bool
	configPath string
	indexPath  string

	// Task input flags
	flagTitle      string
	flagAbstract   string
	flagExpedition string
	flagCategory   string
	flagISOTopic   string
	flagKeywords   []string
	flagPurpose    string
	flagProgress   string
	flagHasFile    bool
	flagMaxWords   int

	// Search flags
	flagNoRecover bool
	flagSummarize bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "polarassist",
	Short: "AI assistance layer for a polar data portal",
	Long: `polarassist provides the AI assistance layer of a polar research data
portal: metadata suggestions for dataset submissions, natural-language
dataset search with zero-result recovery, and grounded question answering
over the published corpus.

All assistance is advisory. When no provider is configured every command
still runs and reports the disabled state instead of failing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// statusCmd shows gateway state and the configured provider chain.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show assistance status and configured providers",
	RunE:  runStatus,
}

// assistCmd runs one submission-assistance task.
var assistCmd = &cobra.Command{
	Use:   "assist [task]",
	Short: "Run a metadata assistance task",
	Long: `Runs one assistance task against the configured providers.

Tasks:
  classify          Suggest category and ISO topic
  keywords          Suggest searchable keywords
  abstract_quality  Score the abstract and suggest improvements
  spatial_extract   Extract a bounding box and zone type
  prefill           Combined classify/keywords/quality/spatial pass
  review_notes      Draft reviewer guidance for a submission
  title             Propose a dataset title
  purpose           Draft a purpose statement
  resolution        Suggest spatial and temporal resolution values

Example:
  polarassist assist classify --title "Sea ice thickness 2023" \
      --abstract "Weekly sea ice thickness measurements..." --expedition antarctic`,
	Args: cobra.ExactArgs(1),
	RunE: runAssist,
}

// searchCmd translates and executes a natural-language dataset query.
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search published datasets with a natural-language query",
	Long: `Translates a natural-language query into structured filters and runs it
against the dataset index. A query starting with "10." is treated as an
exact DOI lookup. Zero-result searches trigger up to two recovery rounds
with provider-suggested rewrites unless --no-recover is set; --summarize
adds a short provider-written overview of the top results.

Example:
  polarassist search "glacier mass balance himalaya 2024" --index datasets.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// askCmd answers a question about the published corpus with citations.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the published datasets",
	Long: `Answers a question grounded in the published corpus. Answers cite the
datasets they draw on as [ID: n]; answers that cannot be grounded in any
known dataset are flagged instead of invented.

Example:
  polarassist ask "which datasets cover arctic permafrost?" --index datasets.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func buildService() (*assist.Service, config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, config.Settings{}, err
	}
	gw := provider.New(settings, logger)
	return assist.NewService(gw, logger), settings, nil
}

func openIndex() (index.Index, func(), error) {
	if indexPath == "" {
		return index.NewMemory(), func() {}, nil
	}
	idx, err := index.OpenSQLite(indexPath)
	if err != nil {
		return nil, nil, err
	}
	return idx, func() { _ = idx.Close() }, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	gw := provider.New(settings, logger)

	status := struct {
		Enabled   bool     `json:"enabled"`
		Providers []string `json:"providers"`
		Timeout   string   `json:"timeout"`
	}{
		Enabled:   !gw.Disabled(),
		Providers: gw.Providers(),
		Timeout:   settings.Timeout.String(),
	}
	return printJSON(status)
}

func runAssist(cmd *cobra.Command, args []string) error {
	svc, _, err := buildService()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	exp := domain.Expedition(flagExpedition)
	if flagExpedition != "" && !domain.ValidExpedition(exp) {
		return fmt.Errorf("unknown expedition %q (valid: antarctic, arctic, southern_ocean, himalaya)", flagExpedition)
	}

	task := assist.TaskType(args[0])
	switch task {
	case assist.TaskClassify:
		return printResult(svc.Classify(ctx, flagTitle, flagAbstract, exp))
	case assist.TaskKeywords:
		return printResult(svc.Keywords(ctx, flagTitle, flagAbstract, flagCategory, flagMaxWords))
	case assist.TaskAbstractQuality:
		return printResult(svc.AbstractQuality(ctx, flagTitle, flagAbstract, exp))
	case assist.TaskSpatialExtract:
		return printResult(svc.SpatialExtract(ctx, flagTitle, flagAbstract, exp))
	case assist.TaskPrefill:
		return printResult(svc.Prefill(ctx, flagTitle, flagAbstract, exp))
	case assist.TaskReviewNotes:
		return printResult(svc.ReviewNotes(ctx, domain.Submission{
			Title:      flagTitle,
			Abstract:   flagAbstract,
			Expedition: exp,
			Category:   flagCategory,
			ISOTopic:   flagISOTopic,
			Keywords:   flagKeywords,
			Purpose:    flagPurpose,
			Progress:   flagProgress,
			HasFile:    flagHasFile,
		}))
	case assist.TaskTitle:
		return printResult(svc.Title(ctx, flagAbstract, exp))
	case assist.TaskPurpose:
		return printResult(svc.Purpose(ctx, flagTitle, flagAbstract, exp))
	case assist.TaskResolution:
		return printResult(svc.Resolution(ctx, flagTitle, flagAbstract, exp))
	default:
		return fmt.Errorf("unknown task %q, see 'polarassist assist --help'", args[0])
	}
}

// printResult renders an assistance result. Disabled and Failed are
// reported states, not command errors: the exit code stays zero.
func printResult[T any](res assist.Result[T]) error {
	view := struct {
		Task          assist.TaskType     `json:"task"`
		Status        assist.Status       `json:"status"`
		Provider      string              `json:"provider,omitempty"`
		Fallback      bool                `json:"fallback,omitempty"`
		ElapsedMillis int64               `json:"elapsed_ms,omitempty"`
		Output        any                 `json:"output,omitempty"`
		Diagnostics   []map[string]string `json:"diagnostics,omitempty"`
		Error         string              `json:"error,omitempty"`
	}{
		Task:          res.Task,
		Status:        res.Status,
		Provider:      res.Provider,
		Fallback:      res.Fallback,
		ElapsedMillis: res.Elapsed.Milliseconds(),
	}
	if res.Usable() {
		view.Output = res.Output
	}
	for _, d := range res.Diagnostics {
		view.Diagnostics = append(view.Diagnostics, map[string]string{
			"severity": string(d.Severity),
			"field":    d.Field,
			"message":  d.Message,
		})
	}
	if res.Err != nil {
		view.Error = res.Err.Error()
	}
	return printJSON(view)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, _, err := buildService()
	if err != nil {
		return err
	}
	idx, closeIdx, err := openIndex()
	if err != nil {
		return err
	}
	defer closeIdx()

	ctx, cancel := signalContext()
	defer cancel()

	searcher := search.New(svc, idx, logger)
	query := strings.Join(args, " ")

	var out search.Outcome
	if flagNoRecover {
		out, err = searcher.Search(ctx, query)
	} else {
		out, err = searcher.SearchWithRecovery(ctx, query)
	}
	if err != nil {
		return err
	}

	view := struct {
		Query          string           `json:"query"`
		Results        []resultView     `json:"results"`
		Summary        string           `json:"summary,omitempty"`
		OffTopic       bool             `json:"off_topic,omitempty"`
		CorrectedQuery string           `json:"corrected_query,omitempty"`
		Suggestions    []string         `json:"suggestions,omitempty"`
		Trail          []search.Attempt `json:"trail,omitempty"`
	}{
		Query:          out.Query,
		OffTopic:       out.OffTopic,
		CorrectedQuery: out.CorrectedQuery,
		Suggestions:    out.Suggestions,
	}
	if len(out.Trail) > 1 {
		view.Trail = out.Trail
	}
	if flagSummarize {
		if sres := searcher.Summarize(ctx, out); sres.Usable() {
			view.Summary = sres.Output.Text
		}
	}
	for _, r := range out.Results {
		view.Results = append(view.Results, resultView{
			ID: r.ID, DOI: r.DOI, Title: r.Title,
			Expedition: string(r.Expedition), Year: r.Year,
		})
	}
	return printJSON(view)
}

type resultView struct {
	ID         int    `json:"id"`
	DOI        string `json:"doi,omitempty"`
	Title      string `json:"title"`
	Expedition string `json:"expedition,omitempty"`
	Year       int    `json:"year,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, _, err := buildService()
	if err != nil {
		return err
	}
	idx, closeIdx, err := openIndex()
	if err != nil {
		return err
	}
	defer closeIdx()

	ctx, cancel := signalContext()
	defer cancel()

	answerer := retrieval.NewAnswerer(svc, idx, logger)
	ans, err := answerer.Answer(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printJSON(ans)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (default: environment variables)")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "Path to the SQLite dataset index")

	assistCmd.Flags().StringVar(&flagTitle, "title", "", "Dataset title")
	assistCmd.Flags().StringVar(&flagAbstract, "abstract", "", "Dataset abstract")
	assistCmd.Flags().StringVar(&flagExpedition, "expedition", "", "Expedition type (antarctic, arctic, southern_ocean, himalaya)")
	assistCmd.Flags().StringVar(&flagCategory, "category", "", "Dataset category key")
	assistCmd.Flags().StringVar(&flagISOTopic, "iso-topic", "", "ISO topic key")
	assistCmd.Flags().StringSliceVar(&flagKeywords, "keywords", nil, "Existing keywords (review_notes)")
	assistCmd.Flags().StringVar(&flagPurpose, "purpose", "", "Purpose statement (review_notes)")
	assistCmd.Flags().StringVar(&flagProgress, "progress", "", "Dataset progress (review_notes)")
	assistCmd.Flags().BoolVar(&flagHasFile, "has-file", false, "Submission has an uploaded data file (review_notes)")
	assistCmd.Flags().IntVar(&flagMaxWords, "max-keywords", domain.MaxKeywords, "Keyword count to request")

	searchCmd.Flags().BoolVar(&flagNoRecover, "no-recover", false, "Disable zero-result recovery")
	searchCmd.Flags().BoolVar(&flagSummarize, "summarize", false, "Add a short overview of the top results")

	rootCmd.AddCommand(statusCmd, assistCmd, searchCmd, askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
