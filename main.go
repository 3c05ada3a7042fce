package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/pkg/errors"

	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line. set records which flags were given
// explicitly, so only those override the scene's own sampling configuration.
type options struct {
	scene   string
	out     string
	meshDir string
	stats   string
	width   int
	height  int
	samples int
	depth   int
	workers int
	seed    uint64
	verbose bool
	help    bool
	set     map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.scene, "scene", "floor", "Built-in scene name or path to a .yaml scene description")
	fs.StringVar(&opts.out, "out", "", "Output PNG path or bucket URL (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&opts.meshDir, "mesh-dir", "models", "Directory holding the OBJ files used by built-in scenes")
	fs.StringVar(&opts.stats, "stats", "", "Write render statistics as JSON to this path")
	fs.IntVar(&opts.width, "width", 0, "Image width (default from scene)")
	fs.IntVar(&opts.height, "height", 0, "Image height (default from scene)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (default from scene)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum indirect bounces (default from scene)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel tile workers (default: number of CPUs)")
	fs.Uint64Var(&opts.seed, "seed", 0, "Base random seed")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, fs, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stdout, fs)
		return nil
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	s, err := createScene(opts.scene, opts.meshDir)
	if err != nil {
		return err
	}

	r := renderer.New(s, nil).Logger(logger).Workers(opts.workers)
	if opts.set["width"] {
		r.Width(opts.width)
	}
	if opts.set["height"] {
		r.Height(opts.height)
	}
	if opts.set["samples"] {
		r.Samples(opts.samples)
	}
	if opts.set["depth"] {
		r.MaxDepth(opts.depth)
	}
	if opts.set["seed"] {
		r.Seed(opts.seed)
	}

	img, err := r.Render(ctx)
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		timestamp := time.Now().Format("20060102_150405")
		out = filepath.Join("output", sceneName(opts.scene), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := loaders.WriteImage(ctx, out, img); err != nil {
		return err
	}
	logger.Info("image saved", "path", out)

	if opts.stats != "" {
		if err := writeStats(opts.stats, r.Stats()); err != nil {
			return err
		}
		logger.Info("stats saved", "path", opts.stats)
	}
	return nil
}

// createScene loads a YAML description when name looks like one, otherwise
// a built-in scene
func createScene(name, meshDir string) (*scene.Scene, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return scene.LoadDescription(name)
	}
	return scene.NewBuiltinScene(name, meshDir)
}

// sceneName turns a scene argument into a directory-friendly name
func sceneName(arg string) string {
	return strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
}

func writeStats(path string, stats renderer.RenderStats) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create stats file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close stats file")
		}
	}()
	return errors.Wrap(json.MarshalWrite(file, stats, jsontext.WithIndent("  ")), "failed to write stats")
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.BuiltinScenes() {
		note := ""
		if info.NeedsMeshes {
			note = " (needs -mesh-dir)"
		}
		fmt.Fprintf(w, "  %-8s %s%s\n", info.Name, info.Description, note)
	}
	fmt.Fprintln(w, "  <file>.yaml  scene description file")
}
