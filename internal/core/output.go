package core

// output.go serializes valid records to the caller's destination.
//
// Three formats are supported:
//   - blocks: one brace-delimited block per record, "name: value" lines
//   - json:   a JSON array of records
//   - yaml:   a YAML sequence of records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how records are serialized.
type OutputFormat string

const (
	FormatBlocks OutputFormat = "blocks"
	FormatJSON   OutputFormat = "json"
	FormatYAML   OutputFormat = "yaml"
)

// ParseOutputFormat validates a format name. Empty means blocks.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatBlocks:
		return FormatBlocks, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format %q (use blocks, json or yaml)", s)
	}
}

// ContentType returns the MIME type used when serving the format over HTTP.
func (f OutputFormat) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// WriteRecords writes records to w in the given format.
func WriteRecords(w io.Writer, records []Record, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	case FormatBlocks, "":
		return WriteBlocks(w, records)
	default:
		return fmt.Errorf("invalid output format %q", format)
	}
}

// WriteBlocks writes each record as
//
//	{
//	 telephone: ...
//	 ...
//	 address: ...
//	}
func WriteBlocks(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		bw.WriteString("{\n")
		for _, f := range blockFields(r) {
			bw.WriteString(" ")
			bw.WriteString(f.name)
			bw.WriteString(": ")
			bw.WriteString(f.value)
			bw.WriteString("\n")
		}
		bw.WriteString("}\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write blocks: %w", err)
	}
	return nil
}

type blockField struct {
	name  string
	value string
}

func blockFields(r Record) []blockField {
	return []blockField{
		{"telephone", r.Telephone},
		{"weight", r.Weight.String()},
		{"inn", r.INN},
		{"passport_series", r.PassportSeries},
		{"university", r.University},
		{"age", r.Age.String()},
		{"political_views", r.PoliticalViews},
		{"worldview", r.Worldview},
		{"address", r.Address},
	}
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteYAML writes records as a YAML sequence.
func WriteYAML(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return nil
}
