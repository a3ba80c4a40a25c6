package analyzer

import (
	"image"

	"golang.org/x/sync/errgroup"
)

// Result is a saliency map together with a few figures describing the run.
type Result struct {
	Saliency    *image.Gray
	BooleanMaps int         // Number of boolean maps that were activated
	Peak        image.Point // First pixel holding the maximum value
	PeakValue   uint8
	Mean        float64 // Mean saliency in [0, 255]
}

// Compute returns the Boolean Map Saliency of img.
func Compute(img *RGB, opts Options) (*image.Gray, error) {
	res, err := Analyze(img, opts)
	if err != nil {
		return nil, err
	}
	return res.Saliency, nil
}

// ComputeImage converts img with FromImage and computes its saliency.
func ComputeImage(img image.Image, opts Options) (*image.Gray, error) {
	return Compute(FromImage(img), opts)
}

// Analyze runs the full pipeline: Lab preparation, boolean maps, activation,
// averaging, smoothing and normalization. Input and options are validated
// before any work is done.
func Analyze(img *RGB, opts Options) (*Result, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	activator, err := NewActivator(opts.ActivationPolicy)
	if err != nil {
		return nil, err
	}
	opts.ThresholdPolicy, _ = ParseThresholdPolicy(string(opts.ThresholdPolicy))

	prepared := Prepare(img)
	jobs := planMaps(prepared, opts.ThresholdCount, opts.ThresholdPolicy)

	att := NewAttention(img.Width, img.Height)
	merge(att, activateAll(prepared, jobs, activator, opts.Workers))
	average(att, opts.ThresholdCount)

	Smooth(att, opts.SmoothingSigma)
	sal := Normalize(att)

	res := &Result{Saliency: sal, BooleanMaps: len(jobs)}
	res.describe()
	return res, nil
}

// activateAll splits the jobs into contiguous chunks, one per worker. Each worker
// sums its activations into a private buffer; the caller merges them.
func activateAll(p *Prepared, jobs []mapJob, activator Activator, workers int) [][]float64 {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers == 0 {
		return nil
	}

	partials := make([][]float64, workers)
	chunk := (len(jobs) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(jobs))
		if lo >= hi {
			continue
		}
		w := w
		g.Go(func() error {
			sum := make([]float64, p.Width*p.Height)
			for _, j := range jobs[lo:hi] {
				accumulate(sum, activator.Activate(Threshold(p, j.channel, j.threshold)))
			}
			partials[w] = sum
			return nil
		})
	}
	// Workers never return an error
	_ = g.Wait()

	return partials
}

func (r *Result) describe() {
	s := r.Saliency
	var total int
	for i, v := range s.Pix {
		total += int(v)
		if v > r.PeakValue || i == 0 {
			r.PeakValue = v
			r.Peak = image.Pt(i%s.Stride, i/s.Stride)
		}
	}
	r.Mean = float64(total) / float64(len(s.Pix))
}
