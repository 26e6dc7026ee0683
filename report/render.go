package report

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v2"
)

// Formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes s to w in the named format.
func Render(w io.Writer, format string, s Summary) error {
	switch format {
	case FormatText, "":
		return RenderText(w, s)
	case FormatJSON:
		return RenderJSON(w, s)
	case FormatYAML:
		return RenderYAML(w, s)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// RenderText writes the three-line summary followed by the hot branch table
// when there is one.
func RenderText(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "branches:\t\t%d\nincorrect:\t\t%d\nmisprediction rate:\t%.2f%%\n",
		s.Branches, s.Mispredictions, s.MispredictionRate)
	if err != nil {
		return err
	}

	if len(s.Hot) == 0 {
		return nil
	}

	p := message.NewPrinter(language.English) // thousands separators
	if _, err := p.Fprintf(w, "\nhot branches:\n%-10s  %14s  %14s  %14s  %8s\n",
		"pc", "executions", "taken", "incorrect", "rate"); err != nil {
		return err
	}
	for _, e := range s.Hot {
		_, err := p.Fprintf(w, "%-10s  %14d  %14d  %14d  %7.2f%%\n",
			fmt.Sprintf("0x%08x", e.PC), e.Executions, e.Taken, e.Mispredictions, e.MispredictionRate())
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes s as indented JSON.
func RenderJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// RenderYAML writes s as YAML.
func RenderYAML(w io.Writer, s Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
