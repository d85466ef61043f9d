// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ffwagency/vacancy-importer/internal/importer"
	"github.com/ffwagency/vacancy-importer/internal/sources"
	"github.com/ffwagency/vacancy-importer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintImportResult outputs the counters of an import run.
func (p *Printer) PrintImportResult(res *importer.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:    %s\n", res.PluginID))
	sb.WriteString(fmt.Sprintf("Run:       %s\n", res.RunID))
	sb.WriteString(fmt.Sprintf("Imported:  %d\n", res.Count))
	sb.WriteString(fmt.Sprintf("  created: %d\n", res.Created))
	sb.WriteString(fmt.Sprintf("  updated: %d\n", res.Updated))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", res.Skipped))
	sb.WriteString(fmt.Sprintf("Duration:  %s", res.Duration.Round(time.Millisecond)))

	p.printBox("IMPORT RESULT", sb.String())
}

// PrintItems outputs the first fetched items of a source.
func (p *Printer) PrintItems(items []types.VacancyItem) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fetched %d vacancies\n", len(items)))

	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := items[i]
		sb.WriteString(fmt.Sprintf("\n%d. [%s] %s", i+1, item.GUID, item.Title()))
		if item.DueDate != "" {
			sb.WriteString(fmt.Sprintf("\n   Due: %s", item.DueDate))
		}
		if item.CategoryWorkArea != "" {
			sb.WriteString(fmt.Sprintf("\n   Work area: %s", item.CategoryWorkArea))
		}
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more vacancies", len(items)-maxItemsToShow))
	}

	p.printBox("FETCHED VACANCIES", sb.String())
}

// PrintSources outputs the registered sources, marking the active one.
func (p *Printer) PrintSources(defs []sources.Definition, active string) {
	var sb strings.Builder
	for i, def := range defs {
		if i > 0 {
			sb.WriteString("\n")
		}
		marker := " "
		if def.ID == active {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %-10s %s", marker, def.ID, def.Label))
		if def.Description != "" {
			sb.WriteString(fmt.Sprintf("\n  %s", def.Description))
		}
	}
	if len(defs) == 0 {
		sb.WriteString("No sources registered")
	}

	p.printBox("VACANCY SOURCES", sb.String())
}

// PrintSweep outputs the result of a lifecycle sweep.
func (p *Printer) PrintSweep(name string, affected int, action string) {
	p.printBox(strings.ToUpper(name)+" SWEEP", fmt.Sprintf("%d vacancies %s", affected, action))
}
