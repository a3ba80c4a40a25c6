package engine

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ivlev/saliency/internal/config"
	"github.com/ivlev/saliency/internal/report"
)

// memSource serves in-memory images; a nil entry fails to render.
// sizes overrides the reported page dimensions when set.
type memSource struct {
	names  []string
	images []image.Image
	sizes  []image.Point
}

func (s *memSource) PageCount() int {
	return len(s.images)
}

func (s *memSource) PagePath(index int) string {
	return s.names[index]
}

func (s *memSource) Close() error {
	return nil
}

func (s *memSource) GetPageDimensions(index int) (float64, float64, error) {
	if s.sizes != nil {
		return float64(s.sizes[index].X), float64(s.sizes[index].Y), nil
	}
	if s.images[index] == nil {
		return 1, 1, nil
	}
	b := s.images[index].Bounds()
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (s *memSource) RenderPage(index int, dpi int) (image.Image, error) {
	if s.images[index] == nil {
		return nil, errors.New("corrupt page")
	}
	return s.images[index], nil
}

func squareImage(size, square int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	lo := (size - square) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{R: 128, G: 128, B: 128, A: 255}
			if x >= lo && x < lo+square && y >= lo && y < lo+square {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestRunWritesSaliencyAndReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scene.png")
	src := &memSource{names: []string{input}, images: []image.Image{squareImage(64, 8)}}

	cfg := config.Default()
	cfg.InputPath = input
	cfg.MaxDim = 32
	cfg.Workers = 2
	cfg.ShowStats = true
	cfg.ReportPath = filepath.Join(dir, "report.yaml")

	rep, err := NewProject(cfg, src, zerolog.Nop()).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	page := rep.Pages[0]
	if page.Output != filepath.Join(dir, "scene_saliency.png") {
		t.Errorf("unexpected output %s", page.Output)
	}
	if page.Width != 32 || page.Height != 32 || page.Scale != 0.5 {
		t.Errorf("expected downscale to 32x32 at 0.5, got %dx%d at %f", page.Width, page.Height, page.Scale)
	}
	if page.SourceWidth != 64 || page.SourceHeight != 64 {
		t.Errorf("expected source size 64x64, got %gx%g", page.SourceWidth, page.SourceHeight)
	}
	if page.PeakValue == 0 || page.BooleanMaps == 0 {
		t.Errorf("expected salient output, got %+v", page)
	}

	sal := decodePNG(t, page.Output)
	if b := sal.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("saliency map has bounds %v", b)
	}

	onDisk, err := report.Read(cfg.ReportPath)
	if err != nil {
		t.Fatalf("report not readable: %v", err)
	}
	if len(onDisk.Pages) != 1 || onDisk.Options.Thresholds != 10 {
		t.Errorf("unexpected report %+v", onDisk)
	}
}

func TestRunReportsFailedPages(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{
		names:  []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png"), filepath.Join(dir, "c.png")},
		images: []image.Image{squareImage(16, 4), nil, squareImage(16, 4)},
	}

	cfg := config.Default()
	cfg.Workers = 3

	rep, err := NewProject(cfg, src, zerolog.Nop()).Run()
	if err == nil {
		t.Fatal("expected an error for the corrupt page")
	}
	if !strings.Contains(err.Error(), "corrupt page") {
		t.Errorf("error should mention the cause: %v", err)
	}

	if rep.Pages[1].Error == "" {
		t.Error("page 2 should carry its error")
	}
	for _, i := range []int{0, 2} {
		if rep.Pages[i].Error != "" {
			t.Errorf("page %d failed: %s", i+1, rep.Pages[i].Error)
		}
		if _, err := os.Stat(rep.Pages[i].Output); err != nil {
			t.Errorf("page %d output missing: %v", i+1, err)
		}
	}
}

func TestRunSelectedPages(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{
		names:  []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")},
		images: []image.Image{squareImage(12, 4), squareImage(12, 4)},
	}

	cfg := config.Default()
	cfg.Pages = []int{2}

	rep, err := NewProject(cfg, src, zerolog.Nop()).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rep.Pages) != 1 || rep.Pages[0].Index != 1 {
		t.Errorf("expected only page 2, got %+v", rep.Pages)
	}

	cfg.Pages = []int{1, 2, 1, 2}
	rep, err = NewProject(cfg, src, zerolog.Nop()).Run()
	if err != nil {
		t.Fatalf("Run with repeated pages failed: %v", err)
	}
	if len(rep.Pages) != 2 || rep.Pages[0].Index != 0 || rep.Pages[1].Index != 1 {
		t.Errorf("expected each page once, got %+v", rep.Pages)
	}

	cfg.Pages = []int{3}
	if _, err := NewProject(cfg, src, zerolog.Nop()).Run(); err == nil {
		t.Error("expected out of range error")
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	src := &memSource{names: []string{"x.png"}, images: []image.Image{squareImage(8, 2)}}
	cfg := config.Default()
	cfg.ThresholdCount = 1

	if _, err := NewProject(cfg, src, zerolog.Nop()).Run(); err == nil {
		t.Error("expected configuration error")
	}
}

func TestRunRejectsEmptyPages(t *testing.T) {
	dir := t.TempDir()
	src := &memSource{
		names:  []string{filepath.Join(dir, "blank.png"), filepath.Join(dir, "ok.png")},
		images: []image.Image{squareImage(12, 4), squareImage(12, 4)},
		sizes:  []image.Point{{X: 0, Y: 12}, {X: 12, Y: 12}},
	}

	rep, err := NewProject(config.Default(), src, zerolog.Nop()).Run()
	if err == nil {
		t.Fatal("expected an error for the empty page")
	}
	if !strings.Contains(rep.Pages[0].Error, "empty page") {
		t.Errorf("page 1 should be rejected as empty, got %q", rep.Pages[0].Error)
	}
	if rep.Pages[0].Output != "" {
		t.Errorf("empty page should not be written, got %s", rep.Pages[0].Output)
	}
	if rep.Pages[1].Error != "" || rep.Pages[1].SourceWidth != 12 {
		t.Errorf("page 2 should succeed, got %+v", rep.Pages[1])
	}
}
