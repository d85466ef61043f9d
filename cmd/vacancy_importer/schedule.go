package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ffwagency/vacancy-importer/internal/importer"
	"github.com/ffwagency/vacancy-importer/internal/lifecycle"
	"github.com/ffwagency/vacancy-importer/internal/logger"
	"github.com/ffwagency/vacancy-importer/internal/scheduler"
)

var schedulePort int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run import, archive and cleanup on their intervals",
	Long: `Run the enabled jobs on the intervals from the settings and serve /health.
When redis_url is set a job only runs in one process at a time.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().IntVar(&schedulePort, "port", 8080, "Port for the health endpoint")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.ComponentLogger("schedule")

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, registry, database)
	if err != nil {
		return err
	}
	maintainer := newMaintainer(cfg, database)

	opts := scheduler.Options{Logger: logger.ComponentLogger("scheduler"), RunOnStart: true}
	if cfg.RedisURL != "" {
		client, err := scheduler.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		opts.Locker = scheduler.NewRedisLocker(client, "")
	}

	sched := scheduler.New(opts)
	jobs := scheduledJobs(engine, maintainer)
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs are enabled; enable import, archive or cleanup in the settings")
	}
	for _, job := range jobs {
		if err := sched.Add(ctx, job); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", schedulePort),
		Handler:           sched.NewMux("vacancy-importer", cfg.Source),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	sched.Start(gctx)

	g.Go(func() error {
		log.Infow("Health endpoint listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		sched.Stop()
		return nil
	})

	return g.Wait()
}

// scheduledJobs returns the jobs enabled in the settings.
func scheduledJobs(engine *importer.Engine, maintainer *lifecycle.Maintainer) []scheduler.Job {
	var jobs []scheduler.Job
	if cfg.Import.Enabled {
		jobs = append(jobs, scheduler.Job{
			Name:     "import",
			Interval: cfg.Import.Interval,
			Run: func(ctx context.Context) error {
				_, err := engine.Execute(ctx)
				return err
			},
		})
	}
	if cfg.Archive.Enabled {
		jobs = append(jobs, scheduler.Job{
			Name:     "archive",
			Interval: cfg.Archive.Interval,
			Run: func(ctx context.Context) error {
				_, err := maintainer.Archive(ctx)
				return err
			},
		})
	}
	if cfg.Cleanup.Enabled {
		jobs = append(jobs, scheduler.Job{
			Name:     "cleanup",
			Interval: cfg.Cleanup.Interval,
			Run: func(ctx context.Context) error {
				_, err := maintainer.Cleanup(ctx)
				return err
			},
		})
	}
	return jobs
}
