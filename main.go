package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"dbexp/pkg"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	Version   string
	BuildTime string
	BuildBy   string
)

const defaultEnvFile = ".env"

type options struct {
	sqlFile      string
	databaseIni  string
	databaseType string
	outputDir    string
	envFile      string
	chunkSize    int
	verbose      bool

	dbType pkg.DbType
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := new(options)
	cmd := &cobra.Command{
		Use:   "dbexp",
		Short: "Export from DB using formatted SQL file",
		Long: `Runs every statement of a SQL file and writes each result set to a
pipe delimited file with every field quoted. Statements end with ';' and
name their target file with a line containing OUTPUT_FILE:<name>.`,
		Version: fmt.Sprintf("%s (built %s by %s)", Version, BuildTime, BuildBy),
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			initLogger(stderr, opts.verbose)
			return opts.validate(cmd.Flags().Changed("env_file"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// past this point a failure is not a usage problem
			cmd.SilenceUsage = true
			return run(cmd.Context(), opts, NewPrinter(stdout))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.sqlFile, "sql", "", "name of sql file to use for export, must contain ; and OUTPUT_FILE:")
	flags.StringVar(&opts.databaseIni, "database_ini", "", "name of database ini file (.yml/.yaml read as YAML)")
	flags.StringVar(&opts.databaseType, "database_type", "", pkg.DbTypeUsage())
	flags.StringVar(&opts.outputDir, "output_dir", ".", "csv files will be exported to this directory")
	flags.IntVar(&opts.chunkSize, "chunk_size", DefaultChunkSize, "rows fetched per round trip")
	flags.StringVar(&opts.envFile, "env_file", defaultEnvFile, "env file loaded before reading the database ini")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	for _, name := range []string{"sql", "database_ini", "database_type"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (o *options) validate(envFileSet bool) error {
	dbType, ok := pkg.ParseDbType(o.databaseType)
	if !ok {
		return errors.Errorf("invalid database type %q, use %s", o.databaseType, pkg.DbTypeUsage())
	}
	o.dbType = dbType
	if st, err := os.Stat(o.sqlFile); err != nil || st.IsDir() {
		return errors.Errorf("invalid sql file %q", o.sqlFile)
	}
	if o.chunkSize <= 0 || o.chunkSize > MaxChunkSize {
		return errors.Errorf("chunk size must be in [1, %d], got %d", MaxChunkSize, o.chunkSize)
	}
	if err := godotenv.Load(o.envFile); err != nil {
		if envFileSet || !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to load env file %s", o.envFile)
		}
	}
	return nil
}

func run(ctx context.Context, opts *options, printer *Printer) error {
	ds, err := pkg.LoadConfigFromFile(opts.databaseIni, opts.dbType)
	if err != nil {
		return err
	}
	jobs, err := LoadExportFile(opts.sqlFile)
	if err != nil {
		return err
	}
	log.Infof("Loaded %d statements from %s", len(jobs), opts.sqlFile)
	if len(jobs) == 0 {
		printer.Summary(nil)
		return nil
	}
	if err = os.MkdirAll(opts.outputDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output dir %s", opts.outputDir)
	}

	db, conn, err := Connect(ctx, ds, ConnOptions{PrefetchRows: opts.chunkSize})
	if err != nil {
		return err
	}
	defer db.Close()
	defer conn.Close()
	log.WithField("db", ds.DsKey()).Infof("Connected to %s", ds.Type)

	results, err := NewExporter(conn, opts.outputDir, opts.chunkSize, printer).ExportAll(ctx, jobs)
	printer.Summary(results)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
