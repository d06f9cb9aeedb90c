package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	OutputFileTag  = "OUTPUT_FILE:"
	StmtTerminator = ";"

	maxScriptLineSize = 64 * 1024 * 1024
)

var ErrMissingOutputFile = errors.New("statement has no " + OutputFileTag + " tag")

// ExportJob is one statement of an export script and the file its rows go to.
type ExportJob struct {
	OutputFile string
	Sql        string
}

func LoadExportFile(sqlFilePath string) ([]*ExportJob, error) {
	sqlFile, err := os.Open(sqlFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sql file %s", sqlFilePath)
	}
	defer sqlFile.Close()
	jobs, err := LoadExportJobs(sqlFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse sql file %s", sqlFilePath)
	}
	return jobs, nil
}

// LoadExportJobs splits a script into jobs, one per line holding a terminator.
// The pending output file carries over to later statements until another tag
// replaces it. A trailing statement without a terminator is dropped.
func LoadExportJobs(r io.Reader) ([]*ExportJob, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScriptLineSize)
	p := new(scriptParser)
	for scanner.Scan() {
		if err := p.feed(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read script")
	}
	return p.jobs, nil
}

type scriptParser struct {
	lineNo     int
	stmt       strings.Builder
	outputFile string
	jobs       []*ExportJob
}

func (p *scriptParser) feed(line string) error {
	p.lineNo++
	p.stmt.WriteString(line)
	p.stmt.WriteByte('\n')

	if idx := strings.Index(line, OutputFileTag); idx >= 0 {
		p.outputFile = strings.TrimSpace(line[idx+len(OutputFileTag):])
	}

	if !strings.Contains(line, StmtTerminator) {
		return nil
	}
	if p.outputFile == "" {
		return errors.Wrapf(ErrMissingOutputFile, "line %d", p.lineNo)
	}
	stmt, _, _ := strings.Cut(p.stmt.String(), StmtTerminator)
	p.jobs = append(p.jobs, &ExportJob{
		OutputFile: p.outputFile,
		Sql:        strings.TrimSpace(stmt),
	})
	p.stmt.Reset()
	return nil
}
