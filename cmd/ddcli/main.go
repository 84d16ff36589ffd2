// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command ddcli is a small operator tool over the addcp engine: it builds a
// bounded-sum diagram from the command line, reports its bounds and node
// count, and can export it as a Graphviz graph.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dalzilio/addcp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// addBoundedSumFlags wires the --bound/--offset pair shared by build-sum and
// dot directly onto a command's flag set.
func addBoundedSumFlags(fs *pflag.FlagSet, bound, offset *int) {
	fs.IntVar(bound, "bound", 0, "upper bound of the sum")
	fs.IntVar(offset, "offset", 0, "constant offset added to the sum")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "ddcli",
		Short:        "ddcli inspects and exports decision diagrams built by the addcp engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newBuildSumCmd(&verbose), newDotCmd(&verbose))
	return root
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func newBuildSumCmd(verbose *bool) *cobra.Command {
	var bound int
	var offset int
	cmd := &cobra.Command{
		Use:   "build-sum BIT [BIT...]",
		Short: "build the ADD for offset + sum(2^i*b_i) <= bound and print its bounds",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := parseBits(args)
			if err != nil {
				return err
			}
			store, err := addcp.NewADD(len(bits), addcp.WithLogger(newLogger(*verbose)))
			if err != nil {
				return err
			}
			id, err := addcp.EncodeBoundedSum(store, bits, offset, bound)
			if err != nil {
				return err
			}
			store.AddSpecialNode(id)
			fmt.Printf("root:   %d\n", id)
			fmt.Printf("min:    %g\n", store.GetMinValue(id))
			fmt.Printf("max:    %g\n", store.GetMaxValue(id))
			fmt.Printf("nodes:  %d\n", store.CountExactNodes(id))
			return nil
		},
	}
	addBoundedSumFlags(cmd.Flags(), &bound, &offset)
	return cmd
}

func newDotCmd(verbose *bool) *cobra.Command {
	var bound int
	var offset int
	var out string
	cmd := &cobra.Command{
		Use:   "dot BIT [BIT...]",
		Short: "build the ADD for offset + sum(2^i*b_i) <= bound and export it as DOT",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := parseBits(args)
			if err != nil {
				return err
			}
			store, err := addcp.NewADD(len(bits), addcp.WithLogger(newLogger(*verbose)))
			if err != nil {
				return err
			}
			id, err := addcp.EncodeBoundedSum(store, bits, offset, bound)
			if err != nil {
				return err
			}
			return store.WriteDot(out, id)
		},
	}
	addBoundedSumFlags(cmd.Flags(), &bound, &offset)
	cmd.Flags().StringVar(&out, "out", "-", "output file, \"-\" for stdout")
	return cmd
}

// parseBits turns the positional BIT arguments (1-based variable ids, in
// increasing significance order) into ints.
func parseBits(args []string) ([]int, error) {
	bits := make([]int, 0, len(args))
	for _, a := range args {
		v, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("ddcli: invalid bit variable %q: %w", a, err)
		}
		bits = append(bits, v)
	}
	return bits, nil
}
