// Command profilectl is the operator-facing entrypoint: it loads a
// ProfilerConfig, opens a connector for the configured database type,
// runs a full or incremental profiling pass, and writes the rendered
// result to stdout or a file.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"profiler"
	"profiler/config"
	"profiler/connector/mssql"
	"profiler/connector/mysql"
	"profiler/connector/postgres"
	"profiler/core"
	"profiler/output"
)

type rootFlags struct {
	configPath  string
	dsn         string
	incremental bool
	outputPath  string
	format      string
	debug       bool
}

func main() {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "profilectl",
		Short: "Profile a relational database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a JSON or TOML config file")
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "database connection string (required)")
	cmd.Flags().BoolVar(&flags.incremental, "incremental", false, "run the incremental profiling path instead of a full profile")
	cmd.Flags().StringVar(&flags.outputPath, "output", "", "write the rendered profile here instead of stdout")
	cmd.Flags().StringVar(&flags.format, "format", "", "json, yaml, xml, or human (defaults to the config's export_format)")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "profilectl:", err)
		os.Exit(1)
	}
}

func runProfile(ctx context.Context, flags *rootFlags) error {
	logger, err := newLogger(flags.debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if flags.incremental {
		cfg.IncrementalEnabled = true
	}

	conn, closeConn, err := openConnector(ctx, cfg, flags.dsn, logger)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.DatabaseType, err)
	}
	defer closeConn()

	orch, err := profiler.New(cfg, conn, logger)
	if err != nil {
		return fmt.Errorf("building orchestrator: %w", err)
	}

	var result *core.SchemaProfile
	if cfg.IncrementalEnabled {
		result = orch.ProfileIncremental(ctx)
	} else {
		result = orch.ProfileSchema(ctx)
	}

	formatName := flags.format
	if formatName == "" {
		formatName = string(cfg.ExportFormat)
	}
	formatter, err := output.NewFormatter(formatName)
	if err != nil {
		return err
	}
	rendered, err := formatter.Format(result)
	if err != nil {
		return fmt.Errorf("rendering profile: %w", err)
	}

	outputPath := flags.outputPath
	if outputPath == "" {
		outputPath = cfg.OutputPath
	}
	return writeOutput(outputPath, rendered)
}

func loadConfig(flags *rootFlags) (*config.ProfilerConfig, error) {
	if flags.configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.LoadFile(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", flags.configPath, err)
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func writeOutput(path string, rendered string) error {
	if path == "" {
		fmt.Println(rendered)
		return nil
	}
	if err := os.WriteFile(path, []byte(rendered+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing output %q: %w", path, err)
	}
	return nil
}

// openConnector opens the concrete core.Connector matching cfg.DatabaseType
// and returns a func that closes the underlying pool or database handle.
func openConnector(ctx context.Context, cfg *config.ProfilerConfig, dsn string, logger *zap.Logger) (core.Connector, func(), error) {
	if dsn == "" {
		return nil, nil, fmt.Errorf("--dsn is required")
	}

	switch cfg.DatabaseType {
	case core.DatabasePostgreSQL:
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{
			MaxConns:        int32(cfg.MaxConnections),
			MinConns:        1,
			MaxConnLifetime: time.Hour,
		})
		if err != nil {
			return nil, nil, err
		}
		return postgres.New(pool), pool.Close, nil

	case core.DatabaseMySQL:
		conn, err := mysql.Open(ctx, dsn, cfg.MaxConnections)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { _ = conn.Close() }, nil

	case core.DatabaseMSSQL:
		conn, err := mssql.Open(ctx, dsn, cfg.MaxConnections)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { _ = conn.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database_type: %s", cfg.DatabaseType)
	}
}
