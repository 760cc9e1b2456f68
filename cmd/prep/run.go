package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"review_prep/internal/adapters/hunspell"
	"review_prep/internal/adapters/observability"
	redisad "review_prep/internal/adapters/redis"
	"review_prep/internal/app"
	"review_prep/internal/domain"
	"review_prep/internal/storage/csvfile"
	mysqlrepo "review_prep/internal/storage/mysql"
	"review_prep/internal/storage/postgres"
)

const finalFile = "reviews_prepared.csv"

var seedFlag uint64

// Flags are bound straight onto cfg; Load runs before flag parsing, so a flag
// only overrides its env value when given.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every preparation stage over a CSV file",
	Example: `  prep run --input data/reviews.csv --parts 2 --seed 42
  SNAPSHOT_SINKS=csv,mysql prep run`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVarP(&cfg.InputPath, "input", "i", "", "input CSV (default $INPUT_PATH)")
	runCmd.Flags().StringVarP(&cfg.OutputDir, "out", "o", "", "output directory (default $OUTPUT_DIR)")
	runCmd.Flags().IntVarP(&cfg.BalanceParts, "parts", "p", 0, "number of rating bands (default $BALANCE_PARTS)")
	runCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "balancer seed (default $BALANCE_SEED, else time based)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Flags().Changed("seed") {
		cfg.BalanceSeed = &seedFlag
	}

	reg := observability.InitRegistry()
	if srv := observability.Serve(cfg.MetricsAddr, reg); srv != nil {
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	records, err := csvfile.ReadFile(cfg.InputPath)
	if err != nil {
		return err
	}
	log.Info().Str("input", cfg.InputPath).Int("records", len(records)).Msg("dataset loaded")
	if rep := app.Inspect(records); !rep.Clean() {
		log.Warn().
			Int("empty_text", len(rep.EmptyText)).
			Int("invalid_rating", len(rep.InvalidRatings)).
			Int("duplicate_groups", len(rep.Duplicates)).
			Msg("data issues found, they will be dropped")
	}

	sinks, closeSinks, err := openSinks()
	if err != nil {
		return err
	}
	defer closeSinks()

	opts := app.Options{
		PartCount:    cfg.BalanceParts,
		Rand:         newRand(),
		SpellWorkers: cfg.SpellWorkers,
		Dictionary:   hunspell.Opener(cfg.DictAff, cfg.DictDic),
	}
	if cfg.RedisAddr != "" {
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cache.Close()
		if err := cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, suggestions will not be cached")
		} else {
			ns := filepath.Base(cfg.DictDic)
			opts.WrapChecker = func(sc domain.SpellChecker) domain.SpellChecker {
				return app.NewCachedChecker(sc, cache, cfg.CacheTTL, ns)
			}
		}
	}

	res, err := app.NewPipeline(opts, sinks...).Run(ctx, records)
	if err != nil {
		return err
	}

	out := filepath.Join(cfg.OutputDir, finalFile)
	if err := csvfile.WriteFile(out, res.Reviews); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Info().Str("run", res.RunID).Str("output", out).Int("records", len(res.Reviews)).Msg("dataset prepared")
	return nil
}

func newRand() *rand.Rand {
	var seed uint64
	if cfg.BalanceSeed != nil {
		seed = *cfg.BalanceSeed
	} else {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info().Uint64("seed", seed).Msg("balancer seed")
	return rand.New(rand.NewPCG(seed, seed))
}

// openSinks builds the configured checkpoint writers. The returned func
// releases any database handles.
func openSinks() ([]domain.SnapshotWriter, func(), error) {
	var sinks []domain.SnapshotWriter
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	for _, name := range cfg.SnapshotSinks {
		switch name {
		case "csv":
			sinks = append(sinks, csvfile.NewSnapshotDir(filepath.Join(cfg.OutputDir, "checkpoints")))
		case "mysql":
			db, err := openMySQL()
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, db.Close)
			sinks = append(sinks, mysqlrepo.New(db))
		case "postgres":
			w, err := postgres.NewWriter(cfg.PostgresDSN)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, w.Close)
			sinks = append(sinks, w)
		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown snapshot sink %q", name)
		}
	}
	return sinks, closeAll, nil
}

func openMySQL() (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	log.Info().Msg("mysql ping ok")
	return db, nil
}
