package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/mesh-intelligence/algtype/internal/catalog"
	"github.com/mesh-intelligence/algtype/pkg/countenum"
	"github.com/spf13/cobra"
)

var (
	errOutOfRange = errors.New("index out of range")
	errNoIndex    = errors.New("value has no index")
)

// lookup resolves a domain name argument.
func (a *app) lookup(name string) (*catalog.Entry, error) {
	e, err := catalog.Lookup(name)
	if err != nil {
		return nil, userError(err)
	}
	a.log.Debug("domain resolved", "name", e.Name, "type", e.Type())
	return e, nil
}

func parseIndex(s string) (uint64, error) {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, userError(fmt.Errorf("parse index %q: %w", s, err))
	}
	return i, nil
}

// --- domains ---

type domainInfo struct {
	Name   string          `json:"name"`
	Card   countenum.Count `json:"card"`
	Values string          `json:"values"`
}

func newDomainsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the named domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []domainInfo
			for _, e := range catalog.All() {
				infos = append(infos, domainInfo{Name: e.Name, Card: e.Domain.Card(), Values: e.Summary})
			}
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), infos)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCARD\tVALUES")
			for _, d := range infos {
				fmt.Fprintf(w, "%s\t%v\t%s\n", d.Name, d.Card, d.Values)
			}
			return w.Flush()
		},
	}
}

// --- shape, schema, card ---

func newShapeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shape <domain>",
		Short: "Print the sum-of-products encoding of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			s := e.Shape()
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"domain":   e.Name,
					"shape":    s.String(),
					"variants": s.Variants(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newCardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "card <domain>",
		Short: "Print the number of values of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{"domain": e.Name, "card": e.Domain.Card()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Domain.Card())
			return nil
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <domain>",
		Short: "Print the JSON Schema of the values accepted by index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e.Schema())
		},
	}
}

// --- list ---

type listItem struct {
	Index uint64 `json:"index"`
	Value any    `json:"value"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		from  uint64
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list <domain>",
		Short: "List values of a domain in order",
		Long: "List values of a domain in ascending order, starting at index --from.\n" +
			"At most --limit values are printed; 0 prints the rest of the domain.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.config.GetInt(cfgKeyLimit)
			}
			if limit < 0 {
				return userError(fmt.Errorf("limit %d is negative", limit))
			}

			var items []listItem
			start, ok := e.Domain.FromIndex(from)
			if !ok && from > 0 {
				return userError(fmt.Errorf("%w: %d, %s has %v values", errOutOfRange, from, e.Name, e.Domain.Card()))
			}
			if ok {
				i := from
				e.Domain.EachFrom(e.Domain.Ref(start), func(x any) bool {
					items = append(items, listItem{Index: i, Value: e.Format(x)})
					i++
					return limit == 0 || len(items) < limit
				})
			}
			a.log.Debug("list", "from", from, "limit", limit, "count", len(items))

			if a.jsonOutput() {
				if items == nil {
					items = []listItem{}
				}
				return printJSON(cmd.OutOrStdout(), items)
			}
			for _, it := range items {
				s, err := compact(it.Value)
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", it.Index, s)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&from, "from", 0, "index of the first value to print")
	cmd.Flags().IntVar(&limit, "limit", defaultLimit, "maximum number of values (default from config)")
	return cmd
}

// --- index, value ---

func newIndexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index <domain> <json>",
		Short: "Print the index of a value",
		Example: `  algtype index option-bool true
  algtype index pair-bool '{"First": true, "Second": false}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			p, err := e.Parse([]byte(args[1]))
			if err != nil {
				return userError(err)
			}
			i, ok := e.Domain.Index(p)
			if !ok {
				return userError(fmt.Errorf("%w: %s in %s", errNoIndex, args[1], e.Name))
			}
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"index":      i,
					"count_from": e.Domain.CountFrom(p),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), i)
			return nil
		},
	}
}

func newValueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "value <domain> <index>",
		Short: "Print the value at an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			i, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			x, ok := e.Domain.FromIndex(i)
			if !ok {
				return userError(fmt.Errorf("%w: %d, %s has %v values", errOutOfRange, i, e.Name, e.Domain.Card()))
			}
			if a.jsonOutput() {
				return printJSON(cmd.OutOrStdout(), listItem{Index: i, Value: e.Format(x)})
			}
			s, err := valueText(e, x)
			if err != nil {
				return sysError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

// --- map ---

type mapRow struct {
	Key   any    `json:"key"`
	Index uint64 `json:"index"`
}

func newMapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "map <domain>",
		Short: "Tabulate a domain as a dense map from each value to its index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			rows, err := e.Table()
			if err != nil {
				return userError(err)
			}
			a.log.Debug("map", "domain", e.Name, "keys", len(rows))

			if a.jsonOutput() {
				out := make([]mapRow, len(rows))
				for i, r := range rows {
					out[i] = mapRow{Key: e.Format(r.Key), Index: r.Index}
				}
				return printJSON(cmd.OutOrStdout(), out)
			}
			for _, r := range rows {
				s, err := valueText(e, r.Key)
				if err != nil {
					return sysError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", s, r.Index)
			}
			return nil
		},
	}
}
