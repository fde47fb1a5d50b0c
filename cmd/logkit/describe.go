package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DerCoop/logkit/pkg/frame"
	"github.com/DerCoop/logkit/pkg/xlog"
)

// automobileColumns 是 UCI automobile 数据集（auto.csv）的列名
var automobileColumns = []string{
	"symboling", "normalized-losses", "make", "fuel-type", "aspiration",
	"num-of-doors", "body-style", "drive-wheels", "engine-location",
	"wheel-base", "length", "width", "height", "curb-weight",
	"engine-type", "num-of-cylinders", "engine-size", "fuel-system",
	"bore", "stroke", "compression-ratio", "horsepower", "peak-rpm",
	"city-mpg", "highway-mpg", "price",
}

var describeCmd = &cobra.Command{
	Use:   "describe [csv-file-or-url]",
	Short: "Load a CSV, drop rows with missing values and print statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := xlog.FromContext(cmd.Context())
		out := cmd.OutOrStdout()
		src := args[0]

		header, _ := cmd.Flags().GetBool("header")
		columns, _ := cmd.Flags().GetStringSlice("columns")
		automobile, _ := cmd.Flags().GetBool("automobile")
		dropna, _ := cmd.Flags().GetStringSlice("dropna")
		selected, _ := cmd.Flags().GetStringSlice("select")
		rows, _ := cmd.Flags().GetInt("rows")
		csvOut, _ := cmd.Flags().GetString("csv-out")
		jsonOut, _ := cmd.Flags().GetString("json-out")

		f, err := frame.ReadFile(cmd.Context(), src, header)
		if err != nil {
			log.Error("failed to load csv", "source", src, "error", err)
			return err
		}
		log.Debug("csv loaded", "source", src, "rows", f.Len())

		fmt.Fprintf(out, "the first %d rows\n%s\n", rows, f.Head(rows))
		fmt.Fprintf(out, "the last %d rows\n%s\n", rows, f.Tail(rows))

		if automobile {
			columns = automobileColumns
		}
		if len(columns) > 0 {
			if err := f.SetColumns(columns); err != nil {
				return err
			}
			fmt.Fprintf(out, "the first %d rows with headers\n%s\n", rows, f.Head(rows))
		}

		if len(dropna) > 0 {
			before := f.Len()
			if f, err = f.DropNA(dropna...); err != nil {
				return err
			}
			log.Info("dropped rows with missing values", "columns", dropna, "dropped", before-f.Len())
			fmt.Fprintf(out, "after dropping missing values\n%s\n", f.Head(rows))
		}

		if csvOut != "" {
			if err := writeTo(csvOut, func(w *os.File) error { return f.WriteCSV(w, true) }); err != nil {
				return err
			}
			log.Info("csv written", "path", csvOut)
		}
		if jsonOut != "" {
			if err := writeTo(jsonOut, func(w *os.File) error { return f.WriteJSON(w) }); err != nil {
				return err
			}
			log.Info("json written", "path", jsonOut)
		}

		fmt.Fprintln(out, "data types")
		for i, t := range f.DTypes() {
			fmt.Fprintf(out, "%-20s %s\n", f.Columns()[i], t)
		}

		summary, err := f.Describe()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", summary)

		if len(selected) > 0 {
			summary, err := f.Describe(selected...)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n", summary)
		}
		return nil
	},
}

func writeTo(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func init() {
	describeCmd.Flags().Bool("header", false, "First CSV row holds column names")
	describeCmd.Flags().StringSlice("columns", nil, "Column names to assign")
	describeCmd.Flags().Bool("automobile", false, "Assign the automobile dataset column names")
	describeCmd.Flags().StringSlice("dropna", nil, "Drop rows missing a value in any of these columns")
	describeCmd.Flags().StringSlice("select", nil, "Columns for an additional focused summary")
	describeCmd.Flags().Int("rows", 3, "Rows to show from the head and tail")
	describeCmd.Flags().String("csv-out", "", "Write the cleaned table as CSV")
	describeCmd.Flags().String("json-out", "", "Write the cleaned table as JSON")
}
