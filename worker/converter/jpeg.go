package converter

import (
	"io"

	"github.com/disintegration/imaging"
)

// JPEG encodes baseline JPEG at Quality (0-100, the encoder raises 0 to 1).
// Sources with transparency are flattened onto white first.
type JPEG struct {
	Quality int
}

func (JPEG) Format() Format { return FormatJPEG }

func (t JPEG) convert(inputPath, outputPath string) error {
	src, err := decodeFile(inputPath)
	if err != nil {
		return err
	}
	img := flatten(src)

	return writeFile(outputPath, "encode jpeg", func(w io.Writer) error {
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(t.Quality))
	})
}
