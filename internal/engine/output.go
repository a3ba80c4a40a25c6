package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

func encodable(ext string) bool {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// ResolveOutput names the saliency map of one page.
//
// Without an explicit output the map is written next to the input as
// <name>_saliency<ext>; PDF pages become <name>_p<N>_saliency.png and formats
// without an encoder fall back to PNG. An explicit output that is a directory
// receives the default name; otherwise it is used as is, which is only allowed
// for single-page runs.
func ResolveOutput(output, input string, index int, multi, pdf bool) (string, error) {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var name string
	switch {
	case pdf:
		name = fmt.Sprintf("%s_p%d_saliency.png", stem, index+1)
	case encodable(ext):
		name = stem + "_saliency" + ext
	default:
		name = stem + "_saliency.png"
	}

	if output == "" {
		return filepath.Join(filepath.Dir(input), name), nil
	}
	if fi, err := os.Stat(output); (err == nil && fi.IsDir()) || strings.HasSuffix(output, string(os.PathSeparator)) {
		return filepath.Join(output, name), nil
	}
	if multi {
		return "", fmt.Errorf("output %s must be a directory when processing several pages", output)
	}
	if !encodable(filepath.Ext(output)) {
		return "", fmt.Errorf("unsupported output format: %s", output)
	}
	return output, nil
}

// Save encodes the saliency map by file extension.
func Save(path string, img *image.Gray) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".gif":
		// Palette index equals the gray level, so no dithering happens
		pal := image.NewPaletted(img.Rect, grayPalette)
		copy(pal.Pix, img.Pix)
		return gif.Encode(f, pal, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(f, img)
	}
}
