//go:build imagick

package converter

import (
	"gopkg.in/gographics/imagick.v3/imagick"
)

// imagickBackend hands the whole read/convert/write cycle to ImageMagick.
type imagickBackend struct{}

func newTIFFBackend() (tiffBackend, error) {
	imagick.Initialize()
	return imagickBackend{}, nil
}

func (imagickBackend) name() string { return "imagick" }

func (imagickBackend) convert(inputPath, outputPath string, compression Compression, quality int) error {
	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(inputPath); err != nil {
		return newError(KindDecode, "decode", inputPath, err)
	}
	if err := mw.SetImageDepth(8); err != nil {
		return newError(KindEncode, "set depth", inputPath, err)
	}
	if err := mw.SetImageFormat("TIFF"); err != nil {
		return newError(KindEncode, "set format", inputPath, err)
	}
	if err := mw.SetImageCompression(magickCompression(compression)); err != nil {
		return newError(KindEncode, "set compression", inputPath, err)
	}
	if err := mw.SetImageCompressionQuality(uint(clampInt(quality))); err != nil {
		return newError(KindEncode, "set compression quality", inputPath, err)
	}
	if err := mw.WriteImage(outputPath); err != nil {
		return newError(KindIO, "write", outputPath, err)
	}
	return nil
}

func magickCompression(c Compression) imagick.CompressionType {
	switch c {
	case CompressionDeflate:
		return imagick.COMPRESSION_ZIP
	case CompressionLZW:
		return imagick.COMPRESSION_LZW
	case CompressionPackBits:
		return imagick.COMPRESSION_RLE
	default:
		return imagick.COMPRESSION_NO
	}
}
