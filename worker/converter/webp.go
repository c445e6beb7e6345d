package converter

import (
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// WebP encodes lossy WebP. Quality runs from 0 (smallest) to 100 (near lossless).
type WebP struct {
	Quality float32
}

func (WebP) Format() Format { return FormatWebP }

func (t WebP) convert(inputPath, outputPath string) error {
	src, err := decodeFile(inputPath)
	if err != nil {
		return err
	}
	img := imaging.Clone(src)

	return writeFile(outputPath, "encode webp", func(w io.Writer) error {
		return webp.Encode(w, img, &webp.Options{Quality: t.Quality})
	})
}
