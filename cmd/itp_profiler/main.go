// Command itp_profiler converts, resamples, plots and animates
// oceanographic depth profiles from Ice-Tethered Profilers and AIDJEX
// buoys. Run parameters come from a YAML configuration file; each
// subcommand is one batch step of the original workflow.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/user/itp_profiler_go/internal/config"
	"github.com/user/itp_profiler_go/internal/log"
)

const usageText = `usage: itp_profiler [flags] <command> [command flags]

commands:
  convert   load one raw profile and write it as a temp,salt,p CSV
  frames    render one comparison frame per phase offset
  gif       stitch the rendered frames into an animated GIF
  animate   frames followed by gif
  tsplot    scatter temperature against salinity from a subsample CSV
  report    write a PDF summary of the configured comparison
`

func main() {
	configPath := flag.String("config", "itp_profiler.yaml", "path to the run configuration")
	debug := flag.Bool("debug", false, "enable verbose logging")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config %s: %v", *configPath, err)
	}
	app := NewApp(cfg)

	command, rest := args[0], args[1:]
	switch command {
	case "convert":
		err = runConvert(app, rest)
	case "frames":
		err = app.RunFrames()
	case "gif":
		err = app.RunGIF()
	case "animate":
		err = app.RunAnimate()
	case "tsplot":
		err = runTSPlot(app, cfg, rest)
	case "report":
		err = runReport(app, cfg, rest)
	default:
		flag.Usage()
		log.Fatalf("unknown command %q", command)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func runConvert(app *App, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	source := fs.String("source", "", "path to the raw profile (AIDJEX station file or profile CSV)")
	instrument := fs.String("instrument", "ITP", `instrument type ("ITP" or "AIDJEX")`)
	instrumentID := fs.String("id", "", "instrument identifier, e.g. 8 or BlueFox")
	profileNumber := fs.String("profile", "", "profile number, e.g. 1301 or 001")
	out := fs.String("out", "", "output CSV path (default derived from instrument and profile)")
	fs.Parse(args)

	if *source == "" {
		return fmt.Errorf("convert: -source is required")
	}
	outPath := *out
	if outPath == "" {
		if *instrument == "AIDJEX" {
			outPath = fmt.Sprintf("AIDJEX-%s_%s.csv", *instrumentID, *profileNumber)
		} else {
			outPath = fmt.Sprintf("%s%s-%s.csv", *instrument, *instrumentID, *profileNumber)
		}
	}
	return app.RunConvert(*source, *instrument, *instrumentID, *profileNumber, outPath)
}

func runTSPlot(app *App, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tsplot", flag.ExitOnError)
	csvPath := fs.String("csv", cfg.FrameName+".csv", "subsample CSV to plot")
	out := fs.String("out", cfg.FrameName+"_TS.png", "output PNG path")
	fs.Parse(args)
	return app.RunTSPlot(*csvPath, *out)
}

func runReport(app *App, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	out := fs.String("out", cfg.FrameName+".pdf", "output PDF path")
	fs.Parse(args)
	return app.RunReport(*out)
}
