// Command ddgopt drives the demand-driven dependency graph runtime
// against the two sample applications (TSP 2-opt and graph coloring
// local search) and the ytbx/dyff snapshot differ, mirroring the
// verb-dispatch, flag-parsing, and env-toggle conventions of the
// teacher's cmd/graft/main.go.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/ddg-lab/ddg-opt/internal/coloring"
	"github.com/ddg-lab/ddg-opt/internal/config"
	"github.com/ddg-lab/ddg-opt/internal/ddg"
	"github.com/ddg-lab/ddg-opt/internal/diagnostics"
	"github.com/ddg-lab/ddg-opt/internal/graphmodel"
	"github.com/ddg-lab/ddg-opt/internal/patchlog"
	"github.com/ddg-lab/ddg-opt/internal/snapshot"
	"github.com/ddg-lab/ddg-opt/internal/tsp"
)

// Version holds the current build version of ddgopt.
var Version = "(development)"

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var printfStdErr = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

func envFlag(varname string) bool {
	val := os.Getenv(varname)
	return val != "" && strings.ToLower(val) != "false" && val != "0"
}

type tspOpts struct {
	NVertices int    `goptions:"-n, --vertices, description='Number of cities to generate'"`
	Seed      int64  `goptions:"--seed, description='RNG seed for the generated instance'"`
	Config    string `goptions:"-c, --config, description='Path to a YAML config file'"`
	History   string `goptions:"--history, description='Write the move history to this YAML file'"`
	Help      bool   `goptions:"--help, -h"`
}

type colorOpts struct {
	NVertices       int    `goptions:"-n, --vertices, description='Number of vertices to generate'"`
	Seed            int64  `goptions:"--seed, description='RNG seed for the generated instance'"`
	MergeLayers     bool   `goptions:"--merge-layers, description='Use the merged-layer branch construction'"`
	DynamicBranches bool   `goptions:"--dynamic-branches, description='Allocate color branches lazily on demand'"`
	Firewall        bool   `goptions:"--firewall, description='Wrap the per-vertex color guards in memoization firewalls'"`
	CostExpr        string `goptions:"--cost-expr, description='govaluate expression scoring each color class'"`
	Config          string `goptions:"-c, --config, description='Path to a YAML config file'"`
	History         string `goptions:"--history, description='Write the move history to this YAML file'"`
	Help            bool   `goptions:"--help, -h"`
}

type benchOpts struct {
	Config string `goptions:"-c, --config, description='Path to a YAML config file'"`
	Help   bool   `goptions:"--help, -h"`
}

func main() {
	var options struct {
		Debug   bool   `goptions:"-D, --debug, description='Enable debugging'"`
		Version bool   `goptions:"-v, --version, description='Display version information'"`
		Color   string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Action  goptions.Verbs
		TSP     tspOpts   `goptions:"tsp"`
		Color_  colorOpts `goptions:"color"`
		Bench   benchOpts `goptions:"bench"`
		Diff    struct {
			Files goptions.Remainder `goptions:"description='Show the semantic differences between two move-history YAML files'"`
		} `goptions:"diff"`
	}
	getopts(&options)

	if options.Version {
		printfStdOut("ddgopt - Version %s\n", Version)
		exit(0)
		return
	}

	shouldEnableColor := false
	switch options.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		printfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", options.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	trace := envFlag("ADAPTON_WRITE_DCG") || options.Debug

	var err error
	switch options.Action {
	case "tsp":
		err = cmdTSP(options.TSP, trace)
	case "color":
		err = cmdColor(options.Color_, trace)
	case "bench":
		err = cmdBench(options.Bench)
	case "diff":
		err = cmdDiff(options.Diff.Files)
	default:
		usage()
		return
	}

	if err != nil {
		printfStdErr("@R{error:} %s\n", err.Error())
		exit(2)
		return
	}
}

func loadConfig(path string) (*config.Config, error) {
	mgr := config.NewManager()
	if path == "" {
		return mgr.Get(), nil
	}
	if err := mgr.Load(path); err != nil {
		return nil, err
	}
	return mgr.Get(), nil
}

func cmdTSP(opts tspOpts, trace bool) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	n := cfg.Graph.NVertices
	if opts.NVertices > 0 {
		n = opts.NVertices
	}
	seed := cfg.Graph.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}

	g, err := buildGraph(n, seed, cfg.Graph.EdgeMode, cfg.Graph.StochasticP)
	if err != nil {
		return err
	}
	weight := g.WeightTable()
	start := make(tsp.Path, n)
	for i := range start {
		start[i] = i
	}

	ctx := ddg.InitCtx()
	if trace {
		ctx.TraceBegin()
	}

	d, err := tsp.Build(ctx, weight, start)
	if err != nil {
		return err
	}

	hist := snapshot.New(snapshot.KindTSP)
	log := patchlog.New(map[string]interface{}{})
	rec := patchlog.TSPRecorder{Log: log}

	final, err := tsp.Search(d, recorderFuncTSP(func(i, j int, path tsp.Path, length int32) error {
		hist.RecordTSPMove(path, length)
		return rec.RecordSwap(i, j, path, length)
	}))
	if err != nil {
		return err
	}

	printfStdOut("final tour length: %d\n", final)

	if trace {
		traces := ctx.TraceEnd()
		counts := diagnostics.Analyse(traces)
		printfStdOut("cells: %d  thunks: %d  reruns: %d\n", counts.Cells(), counts.Thunks(), counts.Reruns())
	}

	if opts.History != "" {
		if err := hist.Save(opts.History); err != nil {
			return err
		}
	}
	return nil
}

func cmdColor(opts colorOpts, trace bool) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	n := cfg.Graph.NVertices
	if opts.NVertices > 0 {
		n = opts.NVertices
	}
	seed := cfg.Graph.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}

	g, err := buildGraph(n, seed, cfg.Graph.EdgeMode, cfg.Graph.StochasticP)
	if err != nil {
		return err
	}

	flags := coloring.Flags{
		MergeLayers:     cfg.Coloring.MergeLayers || opts.MergeLayers,
		DynamicBranches: cfg.Coloring.DynamicBranches || opts.DynamicBranches,
		Firewall:        cfg.Coloring.Firewall || opts.Firewall,
	}
	costExpr := cfg.Coloring.CostExpr
	if opts.CostExpr != "" {
		costExpr = opts.CostExpr
	}

	ctx := ddg.InitCtx()
	if trace {
		ctx.TraceBegin()
	}

	d, err := coloring.Build(ctx, g, flags, costExpr)
	if err != nil {
		return err
	}

	hist := snapshot.New(snapshot.KindColoring)
	log := patchlog.New(map[string]interface{}{})
	rec := patchlog.ColoringRecorder{Log: log}

	final, err := coloring.Search(d, recorderFuncColor(func(v int, c int32, cost int32) error {
		hist.RecordColoringMove(v, c, cost)
		return rec.RecordRecolor(v, c, cost)
	}))
	if err != nil {
		return err
	}

	printfStdOut("final cost: %d  colors used: %d\n", final, d.UsedColors())

	if trace {
		traces := ctx.TraceEnd()
		counts := diagnostics.Analyse(traces)
		printfStdOut("cells: %d  thunks: %d  reruns: %d\n", counts.Cells(), counts.Thunks(), counts.Reruns())
	}

	if opts.History != "" {
		if err := hist.Save(opts.History); err != nil {
			return err
		}
	}
	return nil
}

func cmdBench(opts benchOpts) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	printfStdOut("run the Go test binary's benchmarks instead: go test -bench=. ./internal/bench\n")
	printfStdOut("configured iterations: %d\n", cfg.Bench.Iterations)
	return nil
}

func cmdDiff(paths []string) error {
	if len(paths) != 2 {
		return ansi.Errorf("@R{diff requires exactly two file arguments}")
	}

	from, to, err := ytbx.LoadFiles(paths[0], paths[1])
	if err != nil {
		return err
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return err
	}

	reportWriter := &dyff.HumanReport{
		Report:       report,
		NoTableStyle: false,
		OmitHeader:   true,
	}

	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	reportWriter.WriteReport(out)
	out.Flush()

	printfStdOut("%s", buf.String())
	if len(report.Diffs) == 0 {
		printfStdOut("no differences found between %s and %s\n", paths[0], paths[1])
	}
	return nil
}

func buildGraph(n int, seed int64, edgeMode string, stochasticP float64) (*graphmodel.Graph, error) {
	if n < 2 {
		return nil, graphmodel.EmptyGraphError{Reason: "need at least 2 vertices, got " + strconv.Itoa(n)}
	}
	rng := rand.New(rand.NewSource(seed))
	g := graphmodel.New()
	g.FillWithRandomPoints(n, rng)
	switch edgeMode {
	case "stochastic":
		g.FillWithEdgesStochastic(stochasticP, rng)
	default:
		g.FillWithEdgesFull()
	}
	return g, nil
}

type recorderFuncTSP func(i, j int, path tsp.Path, length int32) error

func (f recorderFuncTSP) RecordSwap(i, j int, path tsp.Path, length int32) error {
	return f(i, j, path, length)
}

type recorderFuncColor func(v int, c int32, cost int32) error

func (f recorderFuncColor) RecordRecolor(v int, c int32, cost int32) error {
	return f(v, c, cost)
}
