// collectq is a command-line front end for querying JSON record sets: filter
// with the query language, group, sort and aggregate, with JSON or YAML
// output.
//
//	cat users.json | collectq filter --where 'age:>=:18'
//	collectq group --input users.json --by department
//	collectq sum --input orders.json --key total
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hasbyte1/go-collect/collections"
)

var (
	inputPath string
	output    string
)

var rootCmd = &cobra.Command{
	Use:   "collectq",
	Short: "Query and aggregate JSON record sets",
	Long: `collectq reads a JSON array of objects from a file or stdin and runs
collection operations over it: filtering with operator conditions, grouping,
counting, sorting and numeric aggregation.`,
	SilenceUsage: true,
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Keep records matching every --where condition",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := load()
		if err != nil {
			return err
		}
		wheres, _ := cmd.Flags().GetStringArray("where")
		negate, _ := cmd.Flags().GetBool("not")
		for _, w := range wheres {
			key, op, value, err := parseWhere(w)
			if err != nil {
				return err
			}
			if negate {
				c, err = c.WhereNot(key, op, value)
			} else {
				c, err = c.Where(key, op, value)
			}
			if err != nil {
				return err
			}
		}
		if sortKey, _ := cmd.Flags().GetString("sort"); sortKey != "" {
			desc, _ := cmd.Flags().GetBool("desc")
			c.Sort(sortKey, desc)
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
			c = c.Take(limit)
		}
		return emit(c.All())
	},
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Group records by a key path",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := load()
		if err != nil {
			return err
		}
		by, _ := cmd.Flags().GetString("by")
		if by == "" {
			return fmt.Errorf("--by is required")
		}
		if countOnly, _ := cmd.Flags().GetBool("count"); countOnly {
			out := map[string]int{}
			c.CountBy(by).Each(func(key string, n int) { out[key] = n })
			return emit(out)
		}
		out := map[string][]map[string]any{}
		c.GroupBy(by).Each(func(key string, bucket *collections.Collection[map[string]any]) {
			out[key] = bucket.All()
		})
		return emit(out)
	},
}

var sumCmd = &cobra.Command{
	Use:   "sum",
	Short: "Sum a numeric field across all records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return aggregate(cmd, "sum")
	},
}

var minCmd = &cobra.Command{
	Use:   "min",
	Short: "Smallest value of a numeric field",
	RunE: func(cmd *cobra.Command, args []string) error {
		return aggregate(cmd, "min")
	},
}

var maxCmd = &cobra.Command{
	Use:   "max",
	Short: "Largest value of a numeric field",
	RunE: func(cmd *cobra.Command, args []string) error {
		return aggregate(cmd, "max")
	},
}

func aggregate(cmd *cobra.Command, op string) error {
	c, err := load()
	if err != nil {
		return err
	}
	key, _ := cmd.Flags().GetString("key")
	if key == "" {
		return fmt.Errorf("--key is required")
	}
	switch op {
	case "sum":
		return emit(c.Sum(key))
	case "min":
		v, ok := c.Min(key)
		if !ok {
			return fmt.Errorf("no numeric values under %q", key)
		}
		return emit(v)
	default:
		v, ok := c.Max(key)
		if !ok {
			return fmt.Errorf("no numeric values under %q", key)
		}
		return emit(v)
	}
}

// parseWhere splits "key:op:value" (or "key:value" for equality) and decodes
// the value as JSON where possible, falling back to a plain string.
func parseWhere(s string) (key, op string, value any, err error) {
	parts := strings.SplitN(s, ":", 3)
	switch len(parts) {
	case 2:
		key, op = parts[0], "="
		value = parseValue(parts[1])
	case 3:
		key, op = parts[0], parts[1]
		value = parseValue(parts[2])
	default:
		return "", "", nil, fmt.Errorf("bad condition %q: want key:op:value", s)
	}
	return key, op, value, nil
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func load() (*collections.Collection[map[string]any], error) {
	var r io.Reader = os.Stdin
	if inputPath != "" && inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return collections.From(records), nil
}

func emit(v any) error {
	switch output {
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(v)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q: want json or yaml", output)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "input file (default stdin)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format: json or yaml")

	filterCmd.Flags().StringArray("where", nil, "condition key:op:value (op: = != > < >= <= in includes)")
	filterCmd.Flags().Bool("not", false, "negate every condition")
	filterCmd.Flags().String("sort", "", "sort by key path")
	filterCmd.Flags().Bool("desc", false, "sort descending")
	filterCmd.Flags().Int("limit", 0, "keep at most N records")

	groupCmd.Flags().String("by", "", "key path to group by")
	groupCmd.Flags().Bool("count", false, "emit counts instead of buckets")

	for _, c := range []*cobra.Command{sumCmd, minCmd, maxCmd} {
		c.Flags().String("key", "", "key path of the numeric field")
	}

	rootCmd.AddCommand(filterCmd, groupCmd, sumCmd, minCmd, maxCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
