package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/goindex/pkg/db/models"
)

const maxNameWidth = 48

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id '%s'", raw)
	}
	return uint(id), nil
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// printTable writes rows through a tabwriter, trimming trailing padding
func printTable(w io.Writer, header []string, rows [][]string) {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(header, "\t"))
	dashes := make([]string, len(header))
	for i, h := range header {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func printResources(w io.Writer, resources []models.Resource) {
	if len(resources) == 0 {
		fmt.Fprintln(w, "No resources found.")
		return
	}

	table := make([][]string, 0, len(resources))
	for _, r := range resources {
		size := humanize.Bytes(uint64(max(r.Size, 0)))
		if r.IsWeb() {
			size = "-"
		}
		table = append(table, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			string(r.Kind),
			shorten(r.Filename, maxNameWidth),
			size,
			humanize.Time(r.ModifiedAt),
		})
	}

	printTable(w, []string{"ID", "TYPE", "NAME", "SIZE", "MODIFIED"}, table)
	fmt.Fprintf(w, "Total: %d resource(s)\n", len(resources))
}

func printResource(w io.Writer, r *models.Resource, tags []string, descriptions []models.Description) {
	fmt.Fprintf(w, "ID:        %d\n", r.ID)
	fmt.Fprintf(w, "Type:      %s\n", r.Kind)
	fmt.Fprintf(w, "Name:      %s\n", r.Filename)
	fmt.Fprintf(w, "Path:      %s\n", r.Path)
	if !r.IsWeb() {
		fmt.Fprintf(w, "Size:      %s\n", humanize.Bytes(uint64(max(r.Size, 0))))
	}
	fmt.Fprintf(w, "Created:   %s (%s)\n", r.CreatedAt.Local().Format(models.RegisteredAtLayout), humanize.Time(r.CreatedAt))
	fmt.Fprintf(w, "Modified:  %s (%s)\n", r.ModifiedAt.Local().Format(models.RegisteredAtLayout), humanize.Time(r.ModifiedAt))

	if len(tags) > 0 {
		fmt.Fprintf(w, "Tags:      %s\n", strings.Join(tags, ", "))
	} else {
		fmt.Fprintln(w, "Tags:      -")
	}

	for _, d := range descriptions {
		source := d.Source
		if d.ModelUsed != "" && d.ModelUsed != models.NoModel {
			source = fmt.Sprintf("%s, %s", d.Source, d.ModelUsed)
		}
		fmt.Fprintf(w, "Note (%s): %s\n", source, d.Text)
	}
}
