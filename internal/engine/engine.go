package engine

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/ivlev/saliency/internal/analyzer"
	"github.com/ivlev/saliency/internal/config"
	"github.com/ivlev/saliency/internal/report"
	"github.com/ivlev/saliency/internal/source"
	"github.com/ivlev/saliency/internal/system"
)

const reportVersion = "1.0"

type Project struct {
	Config *config.Config
	Source source.Source
	Log    zerolog.Logger
	pool   *system.ImagePool
}

func NewProject(cfg *config.Config, src source.Source, log zerolog.Logger) *Project {
	return &Project{
		Config: cfg,
		Source: src,
		Log:    log,
		pool:   system.NewImagePool(),
	}
}

// Run computes a saliency map for every selected page and writes them to disk.
// Pages are processed by a worker pool; a failing page does not stop the others
// but makes Run return an error once all pages are done.
func (p *Project) Run() (*report.Report, error) {
	startTime := time.Now()

	opts, err := p.Config.Options()
	if err != nil {
		return nil, err
	}

	pages, err := p.selectPages()
	if err != nil {
		return nil, err
	}

	// Split the CPU budget between page workers and the boolean map workers inside each page
	numPageWorkers := min(max(p.Config.Workers, 1), len(pages))
	opts.Workers = max(1, p.Config.Workers/numPageWorkers)

	p.Log.Info().
		Str("input", p.Config.InputPath).
		Int("pages", len(pages)).
		Int("page_workers", numPageWorkers).
		Int("map_workers", opts.Workers).
		Msg("starting saliency run")

	jobs := make(chan int, len(pages))
	results := make([]report.Page, len(pages))
	var wg sync.WaitGroup

	for w := 0; w < numPageWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for slot := range jobs {
				results[slot] = p.processPage(pages[slot], len(pages) > 1, opts)
			}
		}()
	}

	for slot := range pages {
		jobs <- slot
	}
	close(jobs)
	wg.Wait()

	rep := &report.Report{
		Version: reportVersion,
		Build:   p.Config.BuildVersion,
		Options: report.Options{
			Thresholds:       opts.ThresholdCount,
			ThresholdPolicy:  string(opts.ThresholdPolicy),
			ActivationPolicy: string(opts.ActivationPolicy),
			SmoothingSigma:   opts.SmoothingSigma,
			MaxDim:           p.Config.MaxDim,
		},
		Pages:   results,
		TotalMs: time.Since(startTime).Milliseconds(),
	}

	if p.Config.ShowStats {
		p.logStats(rep, time.Since(startTime))
	}

	if p.Config.ReportPath != "" {
		if err := report.Write(rep, p.Config.ReportPath); err != nil {
			return rep, fmt.Errorf("failed to write report: %w", err)
		}
		p.Log.Info().Str("path", p.Config.ReportPath).Msg("report written")
	}

	var failed []error
	for _, r := range results {
		if r.Error != "" {
			failed = append(failed, fmt.Errorf("page %d (%s): %s", r.Index+1, r.Input, r.Error))
		}
	}
	return rep, errors.Join(failed...)
}

func (p *Project) selectPages() ([]int, error) {
	count := p.Source.PageCount()
	if count == 0 {
		return nil, fmt.Errorf("source contains no images")
	}
	if len(p.Config.Pages) == 0 {
		pages := make([]int, count)
		for i := range pages {
			pages[i] = i
		}
		return pages, nil
	}

	pages := make([]int, 0, len(p.Config.Pages))
	seen := make(map[int]bool, len(p.Config.Pages))
	for _, n := range p.Config.Pages {
		if n < 1 || n > count {
			return nil, fmt.Errorf("page %d out of range 1..%d", n, count)
		}
		// Two workers must never write the same output file
		if seen[n] {
			continue
		}
		seen[n] = true
		pages = append(pages, n-1)
	}
	return pages, nil
}

func (p *Project) processPage(index int, multi bool, opts analyzer.Options) report.Page {
	start := time.Now()
	input := p.Source.PagePath(index)
	page := report.Page{Index: index, Input: input, Scale: 1}
	log := p.Log.With().Int("page", index+1).Str("input", input).Logger()

	fail := func(err error) report.Page {
		log.Error().Err(err).Msg("page failed")
		page.Error = err.Error()
		page.ElapsedMs = time.Since(start).Milliseconds()
		return page
	}

	srcW, srcH, err := p.Source.GetPageDimensions(index)
	if err != nil {
		return fail(fmt.Errorf("dimensions: %w", err))
	}
	if srcW <= 0 || srcH <= 0 {
		return fail(fmt.Errorf("empty page (%gx%g)", srcW, srcH))
	}
	page.SourceWidth, page.SourceHeight = srcW, srcH

	img, err := p.Source.RenderPage(index, p.Config.DPI)
	if err != nil {
		return fail(fmt.Errorf("render: %w", err))
	}

	var rgb *analyzer.RGB
	if scaled, scale := p.downscale(img); scaled != nil {
		rgb = analyzer.FromImage(scaled)
		p.pool.Put(scaled)
		page.Scale = scale
	} else {
		rgb = analyzer.FromImage(img)
	}
	page.Width, page.Height = rgb.Width, rgb.Height

	res, err := analyzer.Analyze(rgb, opts)
	if err != nil {
		return fail(err)
	}
	page.BooleanMaps = res.BooleanMaps
	page.Peak = report.Point{X: res.Peak.X, Y: res.Peak.Y}
	page.PeakValue = res.PeakValue
	page.Mean = res.Mean

	out, err := p.outputFor(index, multi)
	if err != nil {
		return fail(err)
	}
	if err := Save(out, res.Saliency); err != nil {
		return fail(fmt.Errorf("save: %w", err))
	}
	page.Output = out
	page.ElapsedMs = time.Since(start).Milliseconds()

	log.Info().
		Str("output", out).
		Int("width", page.Width).
		Int("height", page.Height).
		Int("boolean_maps", page.BooleanMaps).
		Int64("elapsed_ms", page.ElapsedMs).
		Msg("saliency map written")
	return page
}

// downscale resamples img so that its larger side equals MaxDim. It returns nil
// when no resampling is needed. The result belongs to the image pool.
func (p *Project) downscale(img image.Image) (*image.RGBA, float64) {
	b := img.Bounds()
	upper := max(b.Dx(), b.Dy())
	if p.Config.MaxDim <= 0 || upper <= p.Config.MaxDim {
		return nil, 1
	}

	scale := float64(p.Config.MaxDim) / float64(upper)
	size := image.Pt(
		max(1, int(math.Round(float64(b.Dx())*scale))),
		max(1, int(math.Round(float64(b.Dy())*scale))),
	)

	dst := p.pool.Get(size)
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst, scale
}

func (p *Project) outputFor(index int, multi bool) (string, error) {
	input := p.Source.PagePath(index)
	_, isPDF := p.Source.(*source.FitzPDFSource)
	return ResolveOutput(p.Config.OutputPath, input, index, multi, isPDF)
}

func (p *Project) logStats(rep *report.Report, total time.Duration) {
	var maps int
	var computeMs int64
	for _, pg := range rep.Pages {
		maps += pg.BooleanMaps
		computeMs += pg.ElapsedMs
	}

	ev := p.Log.Info().
		Str("build", rep.Build).
		Float64("total_s", total.Seconds()).
		Float64("page_time_s", float64(computeMs)/1000).
		Int("pages", len(rep.Pages)).
		Int("boolean_maps", maps).
		Float64("pages_per_s", float64(len(rep.Pages))/total.Seconds())

	host, err := system.ReadHostStats()
	if err != nil {
		p.Log.Warn().Err(err).Msg("host stats unavailable")
	}
	ev.Uint64("rss_bytes", host.ProcessRSS).
		Int("goroutines", host.Goroutines).
		Uint64("host_total_bytes", host.TotalMemory).
		Uint64("host_available_bytes", host.AvailableMemory).
		Float64("host_used_percent", host.UsedPercent).
		Msg("performance report")
}
