// betmated is the betting companion daemon. It serves match analyses, keeps
// the prediction ledger, and verifies pending predictions against final
// scores on demand.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dkorenev/betmate/pkg/analysis"
	"github.com/dkorenev/betmate/pkg/ledger"
	"github.com/dkorenev/betmate/pkg/llm"
	"github.com/dkorenev/betmate/pkg/metrics"
	"github.com/dkorenev/betmate/pkg/odds"
	"github.com/dkorenev/betmate/pkg/sportsdata"
	"github.com/dkorenev/betmate/pkg/storage"
	"github.com/dkorenev/betmate/pkg/verify"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Flags
	httpAddr  = flag.String("http", ":8080", "HTTP server address")
	dataDir   = flag.String("data-dir", "data", "Directory for file-backed state")
	redisAddr = flag.String("redis", "", "Redis address for state (empty = file store)")
	sportsURL = flag.String("sports-url", "", "Sports data API base URL (or BETMATE_SPORTS_URL env)")
	sportsKey = flag.String("sports-key", "", "Sports data API key (or BETMATE_SPORTS_KEY env)")
	llmModel  = flag.String("llm-model", "", "Chat model for analyses (or BETMATE_LLM_MODEL env)")
	llmURL    = flag.String("llm-url", "", "Chat completions base URL (or BETMATE_LLM_URL env)")
	verbose   = flag.Bool("verbose", false, "Verbose logging")
)

func main() {
	godotenv.Load()
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("Starting betmate daemon")

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	c, err := newCompanion()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	server := &http.Server{Addr: *httpAddr, Handler: c.routes()}
	go func() {
		log.Printf("HTTP API on %s", *httpAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server: %v", err)
		}
	}()

	log.Printf("Companion running (http=%s, store=%s)", *httpAddr, c.storeKind)
	log.Println("Press Ctrl+C to stop")

	<-sigCh
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	cancel()

	stats := c.ledger.Stats()
	log.Printf("Final Stats: Predictions=%d, Verified=%d, Correct=%d, Accuracy=%d%%",
		stats.Total, stats.Verified, stats.Correct, stats.Accuracy)
	log.Println("Goodbye!")
}

type companion struct {
	store     storage.Store
	storeKind string
	ledger    *ledger.Ledger
	sports    *sportsdata.Client
	runner    *verify.Runner
	cache     *analysis.Cache
	analyst   *analysis.Analyst
	metrics   *metrics.CompanionMetrics
}

func newCompanion() (*companion, error) {
	c := &companion{metrics: metrics.New()}

	// Storage: redis when addressed, file store otherwise.
	if addr := envOr(*redisAddr, "BETMATE_REDIS_ADDR"); addr != "" {
		store, err := storage.NewRedisStore(addr)
		if err != nil {
			return nil, err
		}
		c.store, c.storeKind = store, "redis"
	} else {
		store, err := storage.NewFileStore(*dataDir)
		if err != nil {
			return nil, err
		}
		c.store, c.storeKind = store, "file"
	}

	c.ledger = ledger.New(c.store)

	var sportsOpts []sportsdata.ClientOption
	if url := envOr(*sportsURL, "BETMATE_SPORTS_URL"); url != "" {
		sportsOpts = append(sportsOpts, sportsdata.WithBaseURL(url))
	}
	if key := envOr(*sportsKey, "BETMATE_SPORTS_KEY"); key != "" {
		sportsOpts = append(sportsOpts, sportsdata.WithAPIKey(key))
	} else {
		log.Println("[warn] no sports API key configured, verification fetches will fail")
	}
	c.sports = sportsdata.NewClient(sportsOpts...)

	c.runner = verify.NewRunner(c.sports, c.ledger)
	c.runner.OnVerified(func(p *ledger.Prediction, result ledger.MatchResult) {
		c.metrics.VerificationsTotal.WithLabelValues(resultLabel(result)).Inc()
		if *verbose {
			log.Printf("[verify] %s vs %s: predicted %s, actual %s (%d-%d)",
				p.HomeTeam.Name, p.AwayTeam.Name, p.Predicted.Outcome,
				result.Actual, result.HomeGoals, result.AwayGoals)
		}
	})

	llmConfig := llm.DefaultConfig()
	llmConfig.APIKey = os.Getenv("OPENAI_API_KEY")
	if model := envOr(*llmModel, "BETMATE_LLM_MODEL"); model != "" {
		llmConfig.Model = model
	}
	if url := envOr(*llmURL, "BETMATE_LLM_URL"); url != "" {
		llmConfig.BaseURL = url
	}
	if llmConfig.APIKey == "" {
		log.Println("[warn] no OPENAI_API_KEY set, analysis requests will fail")
	}
	gen := &instrumentedGenerator{
		inner:   llm.NewClient(llmConfig, analysis.SystemPrompt),
		metrics: c.metrics,
	}

	c.cache = analysis.NewCache(analysis.WithCacheStore(c.store))
	c.analyst = analysis.NewAnalyst(gen, c.cache, c.ledger)

	return c, nil
}

// instrumentedGenerator wraps the LLM client with request metrics.
type instrumentedGenerator struct {
	inner   *llm.Client
	metrics *metrics.CompanionMetrics
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := g.inner.Generate(ctx, prompt)
	g.metrics.LLMDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		g.metrics.LLMRequests.WithLabelValues("error").Inc()
		return "", err
	}
	g.metrics.LLMRequests.WithLabelValues("ok").Inc()
	return text, nil
}

func (c *companion) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Viewing the ledger runs a verification pass first so settled matches
	// show up without an explicit trigger.
	mux.HandleFunc("GET /predictions", func(w http.ResponseWriter, r *http.Request) {
		c.runVerification(r.Context())
		filter := ledger.ParseFilter(r.URL.Query().Get("filter"))
		writeJSON(w, http.StatusOK, c.ledger.List(filter))
	})

	mux.HandleFunc("DELETE /predictions/{id}", func(w http.ResponseWriter, r *http.Request) {
		c.ledger.Remove(r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.ledger.Stats())
	})

	mux.HandleFunc("POST /verify", func(w http.ResponseWriter, r *http.Request) {
		verified := c.runVerification(r.Context())
		writeJSON(w, http.StatusOK, map[string]int{"verified": verified})
	})

	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		var mctx analysis.MatchContext
		if err := json.NewDecoder(r.Body).Decode(&mctx); err != nil {
			http.Error(w, "bad match context: "+err.Error(), http.StatusBadRequest)
			return
		}
		if mctx.MatchID == "" {
			http.Error(w, "match_id is required", http.StatusBadRequest)
			return
		}

		result, err := c.analyst.Analyze(r.Context(), mctx)
		if err != nil {
			log.Printf("[analyze] %s failed: %v", mctx.MatchID, err)
			http.Error(w, "analysis failed", http.StatusBadGateway)
			return
		}
		if result.Cached {
			c.metrics.CacheHits.Inc()
		} else {
			c.metrics.CacheMisses.Inc()
		}
		if result.Prediction != nil {
			c.metrics.PredictionsTotal.
				WithLabelValues(string(result.Prediction.Predicted.Outcome)).Inc()
		}
		writeJSON(w, http.StatusOK, map[string]any{"report": result.Report, "cached": result.Cached})
	})

	mux.HandleFunc("GET /odds/convert", func(w http.ResponseWriter, r *http.Request) {
		dec, err := strconv.ParseFloat(r.URL.Query().Get("decimal"), 64)
		if err != nil || dec <= 1 {
			http.Error(w, "decimal must be a number greater than 1", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"decimal":     dec,
			"fractional":  odds.DecimalToFractional(dec),
			"american":    odds.DecimalToAmerican(dec),
			"implied_pct": odds.DecimalToImplied(dec),
		})
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(c.metrics.Registry(), promhttp.HandlerOpts{}))

	return mux
}

// runVerification executes one pass and refreshes the aggregate gauges.
func (c *companion) runVerification(ctx context.Context) int {
	start := time.Now()
	verified := c.runner.VerifyAll(ctx)
	c.metrics.ObserveVerifyRun(time.Since(start))

	stats := c.ledger.Stats()
	c.metrics.RecordStats(stats.Pending, stats.Accuracy)
	if verified > 0 || *verbose {
		log.Printf("[verify] pass settled %d predictions (%d still pending)", verified, stats.Pending)
	}
	return verified
}

func resultLabel(result ledger.MatchResult) string {
	if result.Correct {
		return "correct"
	}
	return "wrong"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func envOr(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}
