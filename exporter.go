package main

import (
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"

	"dbexp/pkg"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultChunkSize = 50000
	MaxChunkSize     = 1000000
)

var ErrNoResultSet = errors.New("statement returned no columns")

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type ExportResult struct {
	Job     *ExportJob
	Path    string
	Columns int
	Rows    int64
}

// Exporter runs export jobs one after another over a single connection.
type Exporter struct {
	db        Querier
	outputDir string
	chunkSize int
	printer   *Printer
	create    func(name string) (io.WriteCloser, error)
}

func NewExporter(db Querier, outputDir string, chunkSize int, printer *Printer) *Exporter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if outputDir == "" {
		outputDir = "."
	}
	return &Exporter{
		db:        db,
		outputDir: outputDir,
		chunkSize: chunkSize,
		printer:   printer,
		create: func(name string) (io.WriteCloser, error) {
			return os.Create(name)
		},
	}
}

// ExportAll stops at the first failing job. Results of the jobs finished
// before the failure are returned along with the error.
func (e *Exporter) ExportAll(ctx context.Context, jobs []*ExportJob) ([]*ExportResult, error) {
	results := make([]*ExportResult, 0, len(jobs))
	for i, job := range jobs {
		e.printer.Info("output file: " + job.OutputFile)
		res, err := e.Export(ctx, job)
		if err != nil {
			return results, errors.Wrapf(err, "job %d/%d (%s)", i+1, len(jobs), job.OutputFile)
		}
		results = append(results, res)
	}
	return results, nil
}

// Export writes the result set of job.Sql to <outputDir>/<job.OutputFile>.
// A file that fails mid-write is left on disk as it is.
func (e *Exporter) Export(ctx context.Context, job *ExportJob) (*ExportResult, error) {
	if job.OutputFile == "" {
		return nil, ErrMissingOutputFile
	}
	log.WithField("job", job.OutputFile).Debugf("Executing %s", job.Sql)

	rows, err := e.db.QueryContext(ctx, job.Sql)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	return e.exportRows(job, rows)
}

// exportRows streams rows into the job's file. rows and the file are closed on every path.
func (e *Exporter) exportRows(job *ExportJob, rows Rows) (res *ExportResult, err error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close cursor")
		}
	}()
	path := filepath.Join(e.outputDir, job.OutputFile)
	logger := log.WithField("job", job.OutputFile)

	fetcher, err := newRowFetcher(rows, e.chunkSize)
	if err != nil {
		return nil, err
	}
	if len(fetcher.Columns()) == 0 {
		return nil, ErrNoResultSet
	}

	file, err := e.create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", path)
		}
	}()

	res = &ExportResult{Job: job, Path: path, Columns: len(fetcher.Columns())}
	w := pkg.NewQuoteAllWriter(file)
	if err = w.Write(fetcher.Columns()); err != nil {
		return nil, errors.Wrapf(err, "failed to write header to %s", path)
	}
	var chunk [][]string
	for {
		if chunk, err = fetcher.FetchMany(); err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		for _, line := range chunk {
			if err = w.Write(line); err != nil {
				return nil, errors.Wrapf(err, "failed to write %s", path)
			}
		}
		if err = w.Flush(); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", path)
		}
		res.Rows += int64(len(chunk))
		logger.Debugf("Fetched %d rows", res.Rows)
	}
	if err = w.Flush(); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Infof("Exported %d rows to %s", res.Rows, path)
	return res, nil
}
