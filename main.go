// Command roft turns a triangle mesh into a graph of pairwise distance
// constraints and colors it so that constraints sharing a color touch
// disjoint vertices and can be solved in parallel.
//
// Usage:
//
//	roft [flags] [input.obj | scene.roft]
//
// Without an input a flat quad sheet is generated.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/plan-systems/klog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cfg := DefaultConfig()
	fset := flag.NewFlagSet("roft", flag.ContinueOnError)
	cfg.RegisterFlags(fset)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})
	defer klog.Flush()

	if err := fset.Parse(args); err != nil {
		return 2
	}
	if fset.NArg() > 0 {
		cfg.Input = fset.Arg(0)
	}

	app, err := NewApp(cfg)
	if err != nil {
		klog.Errorf("%v", err)
		return 2
	}
	defer app.Close()

	res, err := app.Run(context.Background())
	if err != nil {
		klog.Errorf("%v", err)
		return 1
	}
	for _, w := range res.Warnings {
		klog.Warning(w)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			klog.Errorf("%s: %v", cfg.Input, e)
		}
		return 1
	}

	printSummary(stdout, res)
	return 0
}

func printSummary(w io.Writer, res *RunResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PART\tNODES\tCONSTRAINTS\tCOLORS\tMEAN CLASS\tMAX DEGREE\tCACHED")
	for _, p := range res.Parts {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%d\t%v\n",
			p.Name, p.Stats.Nodes, p.Stats.Edges, p.Stats.Colors, p.Stats.MeanClassSize, p.Stats.MaxDegree, p.Cached)
	}
	tw.Flush()
}
