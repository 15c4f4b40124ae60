package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LouYuanbo1/rdriver/internal/config"
	"github.com/LouYuanbo1/rdriver/internal/infra/metrics"
	"github.com/LouYuanbo1/rdriver/internal/service/automation"
	"github.com/LouYuanbo1/rdriver/internal/service/script"
	"github.com/LouYuanbo1/rdriver/param"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 未指定 --config 时使用内嵌的示例配置
//
//go:embed appconfig/appconfig_example.json
var appConfig []byte

type app struct {
	configPath  string
	debug       bool
	metricsAddr string

	cfg       *config.Config
	logger    *zap.Logger
	collector *metrics.Collector
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "rdriver",
		Short:         "Browser automation with retries for flaky pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (.json, .yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(a.runCmd(), a.screenshotCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) init() error {
	var err error
	if a.debug {
		a.logger, err = zap.NewDevelopment()
	} else {
		a.logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	if a.configPath != "" {
		a.cfg, err = config.LoadConfig(a.configPath)
	} else {
		a.cfg, err = config.ParseConfig(appConfig)
	}
	if err != nil {
		return fmt.Errorf("解析配置失败: %w", err)
	}

	if a.cfg.Metrics.Enabled || a.metricsAddr != "" {
		a.collector, err = metrics.NewCollector(a.cfg.Metrics.Namespace, prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("注册指标失败: %w", err)
		}
	}
	if a.metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(a.metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}
	return nil
}

func (a *app) newFacade(ctx context.Context) (*automation.Facade, error) {
	return automation.New(ctx, facadeOptions(a.cfg),
		automation.WithLogger(a.logger),
		automation.WithMetrics(a.collector),
	)
}

func (a *app) runCmd() *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "run SCRIPT...",
		Short: "Run one or more step scripts, one browser session per script",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts := make([]*param.Script, 0, len(args))
			for _, path := range args {
				s, err := script.LoadScript(path)
				if err != nil {
					return err
				}
				scripts = append(scripts, s)
			}
			if parallel <= 0 {
				parallel = a.cfg.Runner.Parallelism
			}
			runner := script.NewRunner(func(ctx context.Context) (script.Session, error) {
				f, err := a.newFacade(ctx)
				if err != nil {
					return nil, err
				}
				return f, nil
			}, parallel, a.logger)
			return runner.RunAll(cmd.Context(), scripts)
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 0, "number of scripts to run at once (default from config)")
	return cmd
}

func (a *app) screenshotCmd() *cobra.Command {
	var url, out string
	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Open a page and save a full-page screenshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := a.newFacade(ctx)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := f.Navigate(ctx, url); err != nil {
				return err
			}
			if err := f.TakeScreenshot(ctx, out); err != nil {
				return err
			}
			a.logger.Info("screenshot saved", zap.String("url", url), zap.String("file", out),
				zap.String("dir", f.Options().DownloadDir))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "page to open")
	cmd.Flags().StringVar(&out, "out", "page.png", "file name under <download_dir>/screenshots")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
