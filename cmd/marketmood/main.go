// marketmood — market news and social sentiment pipeline.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/marketmood/internal/collect"
	"github.com/seenimoa/marketmood/internal/config"
	"github.com/seenimoa/marketmood/internal/logging"
	"github.com/seenimoa/marketmood/internal/predict"
	"github.com/seenimoa/marketmood/internal/sentiment"
	"github.com/seenimoa/marketmood/internal/store"
	"github.com/seenimoa/marketmood/internal/validate"
	"github.com/seenimoa/marketmood/pkg/models"
	"github.com/seenimoa/marketmood/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set in PersistentPreRunE.
var (
	cfg *config.Config
	log *zap.SugaredLogger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketmood",
	Short: "marketmood — market news and social sentiment pipeline",
	Long: `marketmood collects financial news, social posts, and price history,
scores text sentiment with VADER, links everything to tracked symbols
in SQLite, and predicts next-day closing prices.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		log, err = logging.New(level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(runCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marketmood %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Collect Command ---

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch news and price history into the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		rss, _ := cmd.Flags().GetBool("rss")
		return runCollect(cmd.Context(), rss || cfg.News.UseRSS)
	},
}

func init() {
	collectCmd.Flags().Bool("rss", false, "collect news from RSS feeds instead of the news API")
}

func runCollect(ctx context.Context, useRSS bool) error {
	if err := collectNews(ctx, useRSS); err != nil {
		return err
	}
	return collectStocks(ctx)
}

func collectNews(ctx context.Context, useRSS bool) error {
	var (
		data any
		err  error
	)
	if useRSS {
		data, err = collect.NewRSSNews(collect.DefaultFeedSources, log).Fetch(ctx)
	} else {
		var api *collect.NewsAPI
		api, err = collect.NewNewsAPI(cfg.News.APIKey, cfg.Symbols, cfg.News.Language, cfg.News.Limit, log)
		if err != nil {
			return err
		}
		data, err = api.Fetch(ctx)
	}
	if err != nil {
		return fmt.Errorf("collecting news: %w", err)
	}

	path := newsPath()
	if err := collect.WriteJSON(path, data); err != nil {
		return err
	}
	log.Infow("news collected", "path", path)
	return nil
}

func collectStocks(ctx context.Context) error {
	api := collect.NewStockAPI(cfg.Stock.Range, log)
	data, err := api.HistoryAll(ctx, cfg.Symbols)
	if err != nil {
		return fmt.Errorf("collecting price history: %w", err)
	}

	path := stockPath()
	if err := collect.WriteJSON(path, data); err != nil {
		return err
	}
	log.Infow("price history collected", "path", path, "symbols", len(cfg.Symbols))
	return nil
}

// --- Validate Command ---

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a collected JSON file",
	Long:  "Validate a news, twitter, or stock JSON file and print the findings.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		v := validate.New(log)

		var fn validate.ContentValidator
		switch kind {
		case "news":
			fn = v.NewsData
		case "twitter":
			fn = v.TwitterData
		case "stock":
			fn = v.StockData
		default:
			return fmt.Errorf("unknown data type %q (want news, twitter, or stock)", kind)
		}

		report := v.JSONFile(args[0], fn)
		printReport(args[0], report)
		if !report.Valid {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("type", "news", "data type: news, twitter, or stock")
}

func printReport(path string, report models.ValidationReport) {
	status := "VALID"
	if !report.Valid {
		status = "INVALID"
	}
	fmt.Printf("%s: %s\n", path, status)
	for _, e := range report.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	for _, w := range report.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if report.ArticleCount > 0 {
		fmt.Printf("  articles: %d\n", report.ArticleCount)
	}
	if report.QueryCount > 0 {
		fmt.Printf("  queries: %d, tweets: %d\n", report.QueryCount, report.TweetCount)
	}
	if report.SymbolCount > 0 {
		fmt.Printf("  symbols: %d, data points: %d\n", report.SymbolCount, report.DataPointCount)
	}
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score collected news and social posts with VADER sentiment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze()
	},
}

func runAnalyze() error {
	analyzer := sentiment.New(log)

	if data, err := readJSON(newsPath()); err == nil {
		annotated := analyzer.AnnotateArticles(articlesOf(data))
		out := map[string]any{"data": annotated}
		if err := collect.WriteJSON(annotatedNewsPath(), out); err != nil {
			return err
		}
		log.Infow("news annotated", "articles", len(annotated), "path", annotatedNewsPath())
	} else if !os.IsNotExist(err) {
		return err
	}

	if data, err := readJSON(twitterPath()); err == nil {
		bundles, _ := data.([]any)
		annotated := analyzer.AnnotateSocial(bundles)
		if err := collect.WriteJSON(annotatedTwitterPath(), annotated); err != nil {
			return err
		}
		log.Infow("social posts annotated", "queries", len(annotated), "path", annotatedTwitterPath())
	} else if !os.IsNotExist(err) {
		return err
	}

	return nil
}

// --- Load Command ---

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load collected data into the SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd.Context())
	},
}

func runLoad(ctx context.Context) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(ctx); err != nil {
		return err
	}

	if data, err := readJSON(stockPath()); err == nil {
		summary, err := st.LoadStockData(ctx, data)
		if err != nil {
			return fmt.Errorf("loading stock data: %w", err)
		}
		log.Infow("stock data loaded", "rows", summary.Total)
	} else if !os.IsNotExist(err) {
		return err
	}

	if data, err := readJSONFirst(annotatedNewsPath(), newsPath()); err == nil {
		summary, err := st.LoadNews(ctx, articlesOf(data))
		if err != nil {
			return fmt.Errorf("loading news: %w", err)
		}
		log.Infow("news loaded", "articles", summary.Total, "linked", summary.Linked)
	} else if !os.IsNotExist(err) {
		return err
	}

	if queries, err := readAnnotatedQueries(annotatedTwitterPath()); err == nil {
		summary, err := st.LoadTweets(ctx, queries)
		if err != nil {
			return fmt.Errorf("loading tweets: %w", err)
		}
		log.Infow("tweets loaded", "tweets", summary.Total, "linked", summary.Linked)
	} else if !os.IsNotExist(err) {
		return err
	}

	return nil
}

// --- Predict Command ---

var predictCmd = &cobra.Command{
	Use:   "predict [symbols...]",
	Short: "Predict next-day closing prices from stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols := args
		if len(symbols) == 0 {
			symbols = cfg.Symbols
		}
		return runPredict(cmd.Context(), symbols)
	},
}

func runPredict(ctx context.Context, symbols []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("Market status: %s\n\n", utils.MarketStatus())

	for _, symbol := range symbols {
		symbol = utils.NormalizeSymbol(symbol)
		points, err := st.DailySeries(ctx, symbol)
		if err != nil {
			return fmt.Errorf("reading series for %s: %w", symbol, err)
		}

		result, err := predict.NextDayClose(symbol, points)
		if err != nil {
			log.Warnw("prediction skipped", "symbol", symbol, "error", err)
			continue
		}

		fmt.Printf("%s (last close %.2f on %s)\n", result.Symbol, result.LastClose, result.LastDate)
		fmt.Printf("  predicted next close: %.2f\n", result.Predicted)
		fmt.Printf("  5-day SMA baseline:   %.2f\n", result.Baseline)
		fmt.Printf("  fit R²: %.3f over %d rows\n", result.R2, result.Rows)
	}
	return nil
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: collect, validate, analyze, load, predict",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := runCollect(ctx, cfg.News.UseRSS); err != nil {
			return err
		}

		v := validate.New(log)
		report := v.JSONFile(newsPath(), v.NewsData)
		printReport(newsPath(), report)
		report = v.JSONFile(stockPath(), v.StockData)
		printReport(stockPath(), report)

		if err := runAnalyze(); err != nil {
			return err
		}
		if err := runLoad(ctx); err != nil {
			return err
		}
		return runPredict(ctx, cfg.Symbols)
	},
}

// --- Helpers ---

func newsPath() string    { return filepath.Join(cfg.DataDir, "news_data.json") }
func stockPath() string   { return filepath.Join(cfg.DataDir, "stock_data.json") }
func twitterPath() string { return filepath.Join(cfg.DataDir, "twitter_data.json") }

func annotatedNewsPath() string { return filepath.Join(cfg.DataDir, "news_with_sentiment.json") }

func annotatedTwitterPath() string {
	return filepath.Join(cfg.DataDir, "twitter_with_sentiment.json")
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.DBPath, store.Options{
		TrackedSymbols:     cfg.Symbols,
		LinkUnmatchedToAll: cfg.Store.LinkUnmatchedToAll,
	}, log)
}

func readJSON(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return data, nil
}

// readJSONFirst returns the first path that exists.
func readJSONFirst(paths ...string) (any, error) {
	var lastErr error = os.ErrNotExist
	for _, path := range paths {
		data, err := readJSON(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func readAnnotatedQueries(path string) ([]models.AnnotatedQuery, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var queries []models.AnnotatedQuery
	if err := json.Unmarshal(raw, &queries); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return queries, nil
}

// articlesOf accepts either a {"data": [...]} envelope or a bare list.
func articlesOf(data any) []any {
	switch d := data.(type) {
	case map[string]any:
		if list, ok := d["data"].([]any); ok {
			return list
		}
	case []any:
		return d
	}
	return nil
}
