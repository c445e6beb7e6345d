package converter

import (
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// PNG is lossless; quality does not apply. NewTarget picks png.BestSpeed for
// Level.
type PNG struct {
	Level png.CompressionLevel
}

func (PNG) Format() Format { return FormatPNG }

func (t PNG) convert(inputPath, outputPath string) error {
	src, err := decodeFile(inputPath)
	if err != nil {
		return err
	}
	img := imaging.Clone(src)

	return writeFile(outputPath, "encode png", func(w io.Writer) error {
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(t.Level))
	})
}
