package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type queryBody struct {
	QueryText string         `json:"queryText"`
	Limit     *int32         `json:"limit,omitempty"`
	TimeRange *timeRangeBody `json:"timeRange,omitempty"`
	Fields    []fieldBody    `json:"datetimeFields,omitempty"`
}

type timeRangeBody struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type fieldBody struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

type tableResponse struct {
	Columns []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	} `json:"columns"`
	Rows     [][]any `json:"rows"`
	RowCount int     `json:"rowCount"`
}

func newQueryCmd(opts *clientOptions) *cobra.Command {
	var (
		limit    int32
		from, to string
		fields   []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "query <statement>",
		Short: "Run a PartiQL statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := queryBody{QueryText: args[0]}
			if cmd.Flags().Changed("limit") {
				body.Limit = &limit
			}
			if from != "" || to != "" {
				body.TimeRange = &timeRangeBody{From: from, To: to}
			}
			for _, f := range fields {
				name, format, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid --datetime %q: expected name=format", f)
				}
				body.Fields = append(body.Fields, fieldBody{Name: name, Format: format})
			}

			var table tableResponse
			if err := newClient(opts).do(cmd.Context(), "POST", "/v1/query", body, &table); err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			}
			printTable(table)
			return nil
		},
	}

	cmd.Flags().Int32Var(&limit, "limit", 0, "maximum number of items")
	cmd.Flags().StringVar(&from, "from", "", "time range start (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "time range end (RFC 3339)")
	cmd.Flags().StringArrayVar(&fields, "datetime", nil, "date-time field as name=format (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func printTable(table tableResponse) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush() //nolint:errcheck

	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Name
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, row := range table.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = renderCell(cell)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(os.Stderr, "%d row(s)\n", table.RowCount)
}

func renderCell(cell any) string {
	switch v := cell.(type) {
	case nil:
		return "<null>"
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; trim the trailing zero on integers.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func newHealthCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend and store connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp map[string]string
			if err := newClient(opts).do(cmd.Context(), "GET", "/v1/health", nil, &resp); err != nil {
				return err
			}
			fmt.Println(resp["status"])
			return nil
		},
	}
}
