//go:build !imagick

package converter

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/hhrutter/tiff"
)

type goTIFFBackend struct{}

func newTIFFBackend() (tiffBackend, error) {
	return goTIFFBackend{}, nil
}

func (goTIFFBackend) name() string { return "go" }

func (goTIFFBackend) convert(inputPath, outputPath string, compression Compression, _ int) error {
	src, err := decodeFile(inputPath)
	if err != nil {
		return err
	}
	img := imaging.Clone(src)

	return writeFile(outputPath, "encode tiff", func(w io.Writer) error {
		return encodeTIFF(w, img, compression)
	})
}

func encodeTIFF(w io.Writer, img *image.NRGBA, compression Compression) error {
	switch compression {
	case CompressionDeflate:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case CompressionLZW:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.LZW})
	case CompressionPackBits:
		return encodePackBitsTIFF(w, img)
	default:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Uncompressed})
	}
}
