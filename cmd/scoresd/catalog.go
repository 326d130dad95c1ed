package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mind-engage/clinical-scores/internal/api/respond"
	"github.com/mind-engage/clinical-scores/internal/calculators"
	"github.com/mind-engage/clinical-scores/pkg/score"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			search, _ := cmd.Flags().GetString("search")
			reg, err := calculators.NewRegistry()
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), reg.Filter(category, search))
		},
	}
	cmd.Flags().String("category", "", "Only list calculators in this category")
	cmd.Flags().String("search", "", "Case-insensitive substring of id, title or description")
	return cmd
}

func printList(w io.Writer, list []score.Info) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTITLE")
	for _, info := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.ID, info.Category, info.Title)
	}
	fmt.Fprintf(tw, "\n%d calculator(s)\n", len(list))
	return tw.Flush()
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <score_id>",
		Short: "Print a calculator's metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := calculators.NewRegistry()
			if err != nil {
				return err
			}
			c, ok := reg.Lookup(args[0])
			if !ok {
				return &score.UnknownCalculatorError{ID: args[0]}
			}
			return writeJSON(cmd.OutOrStdout(), c.Metadata())
		},
	}
}

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <score_id>",
		Short: "Run a calculator on JSON parameters",
		Long: "Run a calculator on JSON parameters given with --params, read from --file, " +
			"or read from stdin. The result envelope is printed on success and the error " +
			"envelope on failure.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := readParams(cmd)
			if err != nil {
				return err
			}
			reg, err := calculators.NewRegistry()
			if err != nil {
				return err
			}
			return runCalc(cmd.Context(), cmd.OutOrStdout(), reg, args[0], params)
		},
	}
	cmd.Flags().String("params", "", "Parameters as a JSON object")
	cmd.Flags().String("file", "", "Read parameters from this file")
	return cmd
}

func readParams(cmd *cobra.Command) (json.RawMessage, error) {
	inline, _ := cmd.Flags().GetString("params")
	file, _ := cmd.Flags().GetString("file")
	switch {
	case inline != "" && file != "":
		return nil, errors.New("use only one of --params and --file")
	case inline != "":
		return json.RawMessage(inline), nil
	case file != "":
		return os.ReadFile(file)
	default:
		return io.ReadAll(cmd.InOrStdin())
	}
}

// errCalcFailed is returned after the error envelope has been printed.
var errCalcFailed = errors.New("calculation failed")

func runCalc(ctx context.Context, w io.Writer, reg *score.Registry, id string, params json.RawMessage) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := reg.Invoke(ctx, id, params)
	if err == nil {
		return writeJSON(w, res)
	}

	body := respond.ErrorBody{Error: respond.KindInternal, Message: err.Error(), Details: map[string]any{}}
	var (
		ve *score.ValidationError
		ue *score.UnknownCalculatorError
		ce *score.CalculationError
	)
	switch {
	case errors.As(err, &ve):
		body.Error = respond.KindValidation
		body.Details = map[string]any{"field": ve.Field, "constraint": ve.Constraint}
		if ve.Value != nil {
			body.Details["value"] = ve.Value
		}
	case errors.As(err, &ue), errors.As(err, &ce):
		body.Error = respond.KindCalculation
		body.Details = map[string]any{"score_id": id}
	}
	if werr := writeJSON(w, body); werr != nil {
		return werr
	}
	return errCalcFailed
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
