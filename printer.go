package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Printer writes user facing progress to stdout. Diagnostics go through logrus.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *Printer) Summary(results []*ExportResult) {
	if len(results) == 0 {
		p.Info("Nothing exported")
		return
	}
	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"#", "Output File", "Columns", "Rows"})
	table.SetAutoFormatHeaders(false)
	var total int64
	for i, res := range results {
		table.Append([]string{
			strconv.Itoa(i + 1),
			res.Path,
			strconv.Itoa(res.Columns),
			strconv.FormatInt(res.Rows, 10),
		})
		total += res.Rows
	}
	table.SetFooter([]string{"", "Total", "", strconv.FormatInt(total, 10)})
	table.Render()
}
