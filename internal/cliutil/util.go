package cliutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/cerealdex/cerealdex/cerealdex"
	"github.com/cerealdex/cerealdex/cerealdex/filter"
	"github.com/cerealdex/cerealdex/cerealdex/storage"
	"github.com/cerealdex/cerealdex/cerealdex/storage/postgres"
	"github.com/cerealdex/cerealdex/cerealdex/storage/sqlite"
	"github.com/cerealdex/cerealdex/internal/cliopt"
	"github.com/cerealdex/cerealdex/internal/config"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatIDs    OutputFormat = "ids"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatPretty, FormatIDs, FormatJSON:
		return OutputFormat(s)
	default:
		return FormatPretty
	}
}

func PrintJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	headColor = color.New(color.FgCyan)
)

func OK(w io.Writer, format string, args ...any) {
	okColor.Fprintf(w, format+"\n", args...)
}

func Fail(w io.Writer, format string, args ...any) {
	failColor.Fprintf(w, format+"\n", args...)
}

// Adapter builds the storage adapter the database config points at
func Adapter(db config.DatabaseConfig) (storage.Adapter, error) {
	switch strings.ToLower(db.Backend) {
	case "sqlite", "":
		return sqlite.NewWithDriver(db.Path, db.Driver), nil
	case "postgres":
		return postgres.New(db.DSN, db.Schema), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", db.Backend)
	}
}

func storeOptions(env *cliopt.Env) cerealdex.Options {
	opts := cerealdex.DefaultOptions()
	opts.StaticDir = env.Config.Server.StaticDir
	opts.Logger = env.Log
	return opts
}

// OpenStore opens the configured catalog
func OpenStore(ctx context.Context, env *cliopt.Env) (*cerealdex.Store, error) {
	a, err := Adapter(env.Config.Database)
	if err != nil {
		return nil, err
	}
	return cerealdex.Open(ctx, a, storeOptions(env))
}

// CreateStore creates the configured catalog
func CreateStore(ctx context.Context, env *cliopt.Env) (*cerealdex.Store, error) {
	a, err := Adapter(env.Config.Database)
	if err != nil {
		return nil, err
	}
	return cerealdex.Create(ctx, a, storeOptions(env))
}

var tableColumns = []string{"id", "name", "mfr", "type", "calories", "protein", "fat", "sugars", "carbo", "rating"}

// PrintCereals writes cereals in the requested format
func PrintCereals(w io.Writer, format OutputFormat, cs []cerealdex.Cereal) {
	switch format {
	case FormatJSON:
		PrintJSON(w, cs)
	case FormatIDs:
		for _, c := range cs {
			fmt.Fprintln(w, c.ID)
		}
	default:
		tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(tableColumns, "\t"))
		for _, c := range cs {
			cells := make([]string, len(tableColumns))
			for i, col := range tableColumns {
				v, _ := c.Field(col)
				cells[i] = v.String()
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		tw.Flush()
		headColor.Fprintf(w, "%d cereal(s)\n", len(cs))
	}
}

// PrintStates writes the per-column feasibility states of a tracker
func PrintStates(w io.Writer, tr *filter.Tracker) {
	cols := tr.Columns()
	sort.Strings(cols)
	for _, col := range cols {
		if st, ok := tr.State(col); ok {
			fmt.Fprintf(w, "  %-10s %s\n", col, st)
		}
	}
}

// ParseAssignments turns ["col=value", ...] into a field map
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected column=value, got %q", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}
