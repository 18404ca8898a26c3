package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/speedrun-go/speedrun-client/pkg/speedrun"
)

const indent = 2

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// render writes the data in the configured output format, fillTable adds rows of the table format.
func render[T any](a *app, w io.Writer, data T, header []any, fillTable func(table *tablewriter.Table, data T) error) error {
	switch a.cfg.Output {
	case OutputFormatJSON:
		return renderJSON(w, data)
	case OutputFormatYAML:
		return renderYAML(w, data)
	default:
		table := tablewriter.NewWriter(w)
		table.Header(header...)
		if err := fillTable(table, data); err != nil {
			return err
		}
		return table.Render()
	}
}

func renderJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", indent))
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}
	return nil
}

// renderYAML converts the data to YAML through JSON, so the json tags of the API types are used.
func renderYAML(w io.Writer, data any) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	var generic any
	if err := json.Unmarshal(bytes, &generic); err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(indent)
	if err := encoder.Encode(generic); err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}
	return encoder.Close()
}

func formatSeconds(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).String()
}

func formatPlayers(players []speedrun.Player) string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		if p.Name != "" {
			out = append(out, p.Name)
		} else {
			out = append(out, p.ID)
		}
	}
	return strings.Join(out, ", ")
}

func formatOptional(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}

func formatYear(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}
