package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"communitygraph/config"
	"communitygraph/internal/input/csvfile"
	inputredis "communitygraph/internal/input/redis"
	"communitygraph/internal/logger"
	"communitygraph/internal/metrics"
	"communitygraph/internal/mockdata"
	"communitygraph/internal/output/graphhttp"
	"communitygraph/internal/output/graphjson"
	"communitygraph/internal/output/graphredis"
	"communitygraph/internal/pipeline"
)

const defaultConfigName = "communitygraph.yml"

// findConfigFile returns the first config found, or "" to run on defaults.
func findConfigFile(configArg string, stderr io.Writer) string {
	if configArg != "" {
		if _, err := os.Stat(configArg); err == nil {
			return configArg
		}
		fmt.Fprintf(stderr, "warning: config file not found at %s, trying default locations\n", configArg)
	}

	if _, err := os.Stat(defaultConfigName); err == nil {
		return defaultConfigName
	}

	exePath, err := os.Executable()
	if err == nil {
		path := filepath.Join(filepath.Dir(exePath), defaultConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func loadConfig(configArg string, stderr io.Writer) (*config.Config, string, error) {
	path := findConfigFile(configArg, stderr)
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, path, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, path, nil
}

func newSource(cfg *config.CommunityGraphConfig) (pipeline.RowSource, error) {
	switch cfg.Input.Mode {
	case "file":
		logger.Infof("Input mode: file (%s)", cfg.Input.File.Path)
		return csvfile.NewReader(cfg.Input.File.Path, cfg.Input.Columns), nil
	case "redis":
		c, err := inputredis.NewConsumer(inputredis.Config{
			Addr:     cfg.Input.Redis.Addr,
			Password: cfg.Input.Redis.Password,
			DB:       cfg.Input.Redis.DB,
			Key:      cfg.Input.Redis.Key,
			Columns:  cfg.Input.Columns,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis consumer: %w", err)
		}
		logger.Infof("Input mode: redis (%s %s)", cfg.Input.Redis.Addr, cfg.Input.Redis.Key)
		return c, nil
	default:
		return nil, fmt.Errorf("unknown input mode: %s", cfg.Input.Mode)
	}
}

func newWriter(cfg *config.CommunityGraphConfig) (pipeline.DocumentWriter, string, error) {
	switch cfg.Output.Mode {
	case "file":
		w, err := graphjson.NewWriter(cfg.Output.File.Path)
		if err != nil {
			return nil, "", fmt.Errorf("create graph file writer: %w", err)
		}
		return w, cfg.Output.File.Path, nil
	case "http":
		w, err := graphhttp.NewWriter(graphhttp.Config{
			URL:     cfg.Output.HTTP.URL,
			Timeout: cfg.Output.HTTP.Timeout,
			Headers: cfg.Output.HTTP.Headers,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create graph HTTP writer: %w", err)
		}
		return w, cfg.Output.HTTP.URL, nil
	case "redis":
		w, err := graphredis.NewWriter(graphredis.Config{
			Addr:     cfg.Output.Redis.Addr,
			Password: cfg.Output.Redis.Password,
			DB:       cfg.Output.Redis.DB,
			Key:      cfg.Output.Redis.Key,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create graph redis writer: %w", err)
		}
		return w, "redis key " + cfg.Output.Redis.Key, nil
	default:
		return nil, "", fmt.Errorf("unknown output mode: %s", cfg.Output.Mode)
	}
}

func runBuild(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}

	cfg, configPath, err := loadConfig(configArg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	cg := &cfg.CommunityGraph

	if err := logger.Init(cg.Logging.Enabled, cg.Logging.Level, cg.Logging.File, cg.Logging.Console); err != nil {
		fmt.Fprintf(stderr, "error: initialize logger: %v\n", err)
		return 1
	}
	if configPath != "" {
		logger.Infof("Config loaded from: %s", configPath)
	}

	source, err := newSource(cg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	writer, destination, err := newWriter(cg)
	if err != nil {
		if c, ok := source.(io.Closer); ok {
			c.Close()
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var m *metrics.BuildMetrics
	if cg.Metrics.Enabled {
		m = metrics.New()
	}

	pipe := pipeline.NewGraphPipeline(source, writer, m)
	defer func() {
		if err := pipe.Close(); err != nil {
			logger.Errorf("Error closing pipeline: %v", err)
		}
	}()

	_, runErr := pipe.Run(ctx)

	if m != nil && cg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cg.Metrics.Textfile); err != nil {
			logger.Warnf("Failed to write metrics textfile: %v", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "error: %v\n", runErr)
		return 1
	}

	fmt.Fprintf(stdout, "graph data exported to %s\n", destination)
	return 0
}

func runMock(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mock", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configArg := fs.String("config", "", "Optional YAML config path")
	rows := fs.Int("rows", 0, "Number of rows to generate (default from config, 50)")
	seed := fs.Int64("seed", 0, "Random seed (default: current time)")
	output := fs.String("output", "", "CSV output path (default from config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, _, err := loadConfig(*configArg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	cg := &cfg.CommunityGraph

	n := cg.Mock.Rows
	if *rows > 0 {
		n = *rows
	}
	path := cg.Mock.Path
	if *output != "" {
		path = *output
	}
	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	data := mockdata.NewGenerator(s, time.Now()).Rows(n)
	if err := mockdata.WriteFile(path, data, cg.Input.Columns); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "mock data written to %s (rows=%d)\n", path, n)
	return 0
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "build":
			return runBuild(ctx, args[1:], stdout, stderr)
		case "mock":
			return runMock(args[1:], stdout, stderr)
		default:
			// First arg is a config path.
			return runBuild(ctx, args, stdout, stderr)
		}
	}
	return runBuild(ctx, nil, stdout, stderr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
