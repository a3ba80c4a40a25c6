package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivlev/saliency/internal/config"
	"github.com/ivlev/saliency/internal/engine"
	"github.com/ivlev/saliency/internal/logger"
	"github.com/ivlev/saliency/internal/source"
	"github.com/ivlev/saliency/internal/system"
)

// Set with -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

// pageList parses "1,3,5" into page numbers.
type pageList []int

func (p *pageList) String() string {
	parts := make([]string, len(*p))
	for i, n := range *p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func (p *pageList) Set(s string) error {
	*p = (*p)[:0]
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("invalid page %q", part)
		}
		*p = append(*p, n)
	}
	return nil
}

func main() {
	defaults := config.Default()

	var inputPath, outputPath string
	flag.StringVar(&inputPath, "input", "", "Image, directory of images or PDF (default: newest file in input/)")
	flag.StringVar(&inputPath, "i", "", "Shorthand for -input")
	flag.StringVar(&outputPath, "output", "", "Output file or directory (default: <name>_saliency<ext> next to the input)")
	flag.StringVar(&outputPath, "o", "", "Shorthand for -output")
	configPtr := flag.String("config", "", "YAML configuration file; flags override its values")
	thresholdsPtr := flag.Int("thresholds", defaults.ThresholdCount, "Number of threshold levels per channel")
	thresholdPolicyPtr := flag.String("threshold-policy", defaults.ThresholdPolicy, "Threshold sweep: adaptive, fixed")
	activationPtr := flag.String("activation", defaults.ActivationPolicy, "Activation: flood, fill-holes")
	sigmaPtr := flag.Float64("sigma", defaults.SmoothingSigma, "Gaussian smoothing sigma, 0 disables")
	maxDimPtr := flag.Int("max-dim", defaults.MaxDim, "Downscale so the larger side is at most this many pixels, 0 disables")
	workersPtr := flag.Int("workers", system.DefaultWorkers(), "Workers")
	dpiPtr := flag.Int("dpi", defaults.DPI, "PDF rasterization DPI")
	var pages pageList
	flag.Var(&pages, "pages", "PDF pages to process, e.g. 1,3 (default: all)")
	reportPtr := flag.String("report", "", "Write a YAML run report to this path")
	statsPtr := flag.Bool("stats", false, "Log a performance report")
	logLevelPtr := flag.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	logFormatPtr := flag.String("log-format", defaults.LogFormat, "Log format: console, json")

	flag.Parse()

	// Without -workers the CPU count applies unless the config file sets one
	defaults.Workers = *workersPtr
	cfg := defaults
	if *configPtr != "" {
		loaded, err := config.LoadOver(*configPtr, defaults)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags given explicitly win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input", "i":
			cfg.InputPath = inputPath
		case "output", "o":
			cfg.OutputPath = outputPath
		case "thresholds":
			cfg.ThresholdCount = *thresholdsPtr
		case "threshold-policy":
			cfg.ThresholdPolicy = *thresholdPolicyPtr
		case "activation":
			cfg.ActivationPolicy = *activationPtr
		case "sigma":
			cfg.SmoothingSigma = *sigmaPtr
		case "max-dim":
			cfg.MaxDim = *maxDimPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "pages":
			cfg.Pages = pages
		case "report":
			cfg.ReportPath = *reportPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		case "log-format":
			cfg.LogFormat = *logFormatPtr
		}
	})
	cfg.BuildVersion = buildVersion

	log := logger.FromConfig(cfg.LogFormat, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("saliency run failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestInput("input")
		if err != nil {
			return fmt.Errorf("%w; pass -input or put a file into input/", err)
		}
		cfg.InputPath = latest
		log.Info().Str("input", latest).Msg("using newest input")
	}

	src, err := source.Open(cfg.InputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	rep, err := engine.NewProject(cfg, src, log).Run()
	if err != nil {
		return err
	}

	log.Info().Int("pages", len(rep.Pages)).Int64("total_ms", rep.TotalMs).Msg("done")
	return nil
}
