package main

import (
	"io"
	"os"
	"time"

	"github.com/dracory/gestor"
	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/logging"
	"github.com/dracory/gestor/shared/types"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand and override .env and YAML.
type globalFlags struct {
	configPath  string
	backend     string
	supabaseURL string
	supabaseKey string
	dbDriver    string
	dbDSN       string
	timeout     time.Duration
	retries     int
	logLevel    string
	demo        bool
}

// newRootCmd builds the command tree. Output of the terminal commands goes
// to out.
func newRootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "gestor",
		Short:         "Browse, insert and delete rows of the clientes, productos, pedidos and detalles tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file overlaying .env and environment")
	pf.StringVar(&flags.backend, "backend", "", "data backend: postgrest, sql or memory")
	pf.StringVar(&flags.supabaseURL, "supabase-url", "", "Supabase project URL")
	pf.StringVar(&flags.supabaseKey, "supabase-key", "", "Supabase API key")
	pf.StringVar(&flags.dbDriver, "db-driver", "", "SQL driver: postgres, mysql, sqlite or sqlserver")
	pf.StringVar(&flags.dbDSN, "db-dsn", "", "SQL data source name")
	pf.DurationVar(&flags.timeout, "timeout", 0, "timeout of each data service call")
	pf.IntVar(&flags.retries, "retries", 0, "retries of the PostgREST transport")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&flags.demo, "demo", false, "fill the memory backend with sample rows")

	root.AddCommand(
		newServeCmd(flags),
		newTablesCmd(flags),
		newBrowseCmd(flags),
		newInsertCmd(flags),
		newDeleteCmd(flags),
	)
	return root
}

// loadConfig reads the configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (types.Config, error) {
	cfg, err := gestor.LoadConfig(flags.configPath)
	if err != nil {
		return cfg, err
	}

	set := cmd.Flags().Changed
	if set("backend") {
		cfg.Backend = flags.backend
	}
	if set("supabase-url") {
		cfg.SupabaseURL = flags.supabaseURL
	}
	if set("supabase-key") {
		cfg.SupabaseKey = flags.supabaseKey
	}
	if set("db-driver") {
		cfg.DBDriver = flags.dbDriver
	}
	if set("db-dsn") {
		cfg.DBDSN = flags.dbDSN
	}
	if set("timeout") {
		cfg.RequestTimeout = flags.timeout
	}
	if set("retries") {
		cfg.HTTPRetryMax = flags.retries
	}
	if set("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if set("demo") {
		cfg.MemoryDemo = flags.demo
	}
	return cfg, nil
}

// deps is what every command needs once configuration is loaded.
type deps struct {
	cfg     types.Config
	log     *logrus.Logger
	service dataservice.Service
}

func (rt *deps) Close() {
	if c, ok := rt.service.(io.Closer); ok {
		_ = c.Close()
	}
}

// newDeps validates cfg and opens the logger and the data service.
func newDeps(cfg types.Config, validate func(types.Config) error) (*deps, error) {
	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}
	svc, err := dataservice.Open(cfg, log)
	if err != nil {
		return nil, errors.Wrap(err, "data service")
	}
	return &deps{cfg: cfg, log: log, service: svc}, nil
}

// setup loads configuration for a terminal command and opens its deps.
func setup(cmd *cobra.Command, flags *globalFlags) (*deps, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	return newDeps(cfg, types.Config.Validate)
}

// controller builds a controller whose notices print to out.
func (rt *deps) controller(out io.Writer) *viewstate.Controller {
	return viewstate.New(rt.service,
		viewstate.WithNotifier(printNotifier(out)),
		viewstate.WithLogger(rt.log),
		viewstate.WithTimeout(rt.cfg.RequestTimeout),
	)
}
