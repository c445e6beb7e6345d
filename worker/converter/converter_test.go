package converter

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"
	"go.uber.org/zap/zaptest"
)

func createTestImage(t *testing.T, width, height int, withAlpha bool, path string) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			a := uint8(255)
			if withAlpha && x < width/2 {
				a = uint8(64 + (y*128)/height)
			}
			img.SetNRGBA(x, y, color.NRGBA{r, g, 128, a})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return img
}

func decodeWith(t *testing.T, path string, decode func(*os.File) (image.Image, error)) image.Image {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	img, err := decode(file)
	if err != nil {
		t.Fatalf("Failed to decode output image: %v", err)
	}
	return img
}

func assertSize(t *testing.T, img image.Image, width, height int) {
	t.Helper()
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		t.Errorf("Expected dimensions %dx%d, got %dx%d", width, height, bounds.Dx(), bounds.Dy())
	}
}

func assertSamePixels(t *testing.T, want *image.NRGBA, got image.Image) {
	t.Helper()
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			w := want.NRGBAAt(x, y)
			g := color.NRGBAModel.Convert(got.At(x, y)).(color.NRGBA)
			if w != g {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, w, g)
			}
		}
	}
}

// tiffCompressionTag reads the Compression field of the first IFD.
func tiffCompressionTag(t *testing.T, path string) uint16 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read tiff: %v", err)
	}
	if string(data[:4]) != "II*\x00" {
		t.Fatalf("Expected little-endian tiff header, got %q", data[:4])
	}
	le := binary.LittleEndian
	off := int(le.Uint32(data[4:8]))
	n := int(le.Uint16(data[off:]))
	for i := 0; i < n; i++ {
		entry := data[off+2+i*12:]
		if le.Uint16(entry[0:2]) == tagCompression {
			return le.Uint16(entry[8:10])
		}
	}
	t.Fatal("Compression tag not found")
	return 0
}

func TestConverter_Convert_WebP(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.png")
	outputPath := filepath.Join(tmpDir, "output.webp")

	createTestImage(t, 100, 100, false, inputPath)

	target, err := ParseTarget("webp", 80)
	if err != nil {
		t.Fatalf("ParseTarget failed: %v", err)
	}
	if err := converter.Convert(inputPath, outputPath, target); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	img := decodeWith(t, outputPath, func(f *os.File) (image.Image, error) { return webp.Decode(f) })
	assertSize(t, img, 100, 100)
}

func TestConverter_Convert_WebPWithAlpha(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.png")
	outputPath := filepath.Join(tmpDir, "output.webp")

	createTestImage(t, 50, 50, true, inputPath)

	if err := converter.Convert(inputPath, outputPath, WebP{Quality: 0}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	img := decodeWith(t, outputPath, func(f *os.File) (image.Image, error) { return webp.Decode(f) })
	assertSize(t, img, 50, 50)
}

func TestConverter_Convert_JPEGFlattensAlpha(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.png")
	outputPath := filepath.Join(tmpDir, "output.jpeg")

	// Fully transparent black must come out white, not black.
	src := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	file, err := os.Create(inputPath)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	if err := png.Encode(file, src); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	file.Close()

	if err := converter.Convert(inputPath, outputPath, JPEG{Quality: 90}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	img := decodeWith(t, outputPath, func(f *os.File) (image.Image, error) { return jpeg.Decode(f) })
	assertSize(t, img, 40, 30)

	r, g, b, _ := img.At(20, 15).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("Expected flattened pixel to be near white, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestConverter_Convert_JPEGFromJPEG(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	pngPath := filepath.Join(tmpDir, "seed.png")
	inputPath := filepath.Join(tmpDir, "input.jpeg")
	outputPath := filepath.Join(tmpDir, "output.jpeg")

	createTestImage(t, 64, 48, false, pngPath)
	if err := converter.Convert(pngPath, inputPath, JPEG{Quality: 95}); err != nil {
		t.Fatalf("Seed conversion failed: %v", err)
	}
	if err := converter.Convert(inputPath, outputPath, JPEG{Quality: 10}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	img := decodeWith(t, outputPath, func(f *os.File) (image.Image, error) { return jpeg.Decode(f) })
	assertSize(t, img, 64, 48)
}

func TestConverter_Convert_PNGIsLossless(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.png")
	outputPath := filepath.Join(tmpDir, "output.png")

	src := createTestImage(t, 33, 21, true, inputPath)

	target, err := ParseTarget("png", 5)
	if err != nil {
		t.Fatalf("ParseTarget failed: %v", err)
	}
	if err := converter.Convert(inputPath, outputPath, target); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	img := decodeWith(t, outputPath, func(f *os.File) (image.Image, error) { return png.Decode(f) })
	assertSize(t, img, 33, 21)
	assertSamePixels(t, src, img)
}

func TestConverter_Convert_DecodesWebPSource(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.png")
	webpPath := filepath.Join(tmpDir, "middle.webp")
	outputPath := filepath.Join(tmpDir, "output.png")

	createTestImage(t, 20, 10, false, inputPath)
	if err := converter.Convert(inputPath, webpPath, WebP{Quality: 90}); err != nil {
		t.Fatalf("Convert to webp failed: %v", err)
	}
	if err := converter.Convert(webpPath, outputPath, PNG{Level: png.BestSpeed}); err != nil {
		t.Fatalf("Convert from webp failed: %v", err)
	}

	img := decodeWith(t, outputPath, func(f *os.File) (image.Image, error) { return png.Decode(f) })
	assertSize(t, img, 20, 10)
}

func TestConverter_Convert_InvalidInputPath(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	outputPath := filepath.Join(t.TempDir(), "output.png")

	err := converter.Convert("/nonexistent/path.png", outputPath, PNG{})
	if err == nil {
		t.Fatal("Expected error for non-existent input file, got nil")
	}
	if KindOf(err) != KindIO {
		t.Errorf("Expected kind %v, got %v", KindIO, KindOf(err))
	}
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Error("Output file should not exist after a failed conversion")
	}
}

func TestConverter_Convert_CorruptInput(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "broken.png")
	outputPath := filepath.Join(tmpDir, "broken.webp")

	if err := os.WriteFile(inputPath, []byte("definitely not an image"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	err := converter.Convert(inputPath, outputPath, WebP{Quality: 80})
	if err == nil {
		t.Fatal("Expected error for corrupt input, got nil")
	}
	if KindOf(err) != KindDecode {
		t.Errorf("Expected kind %v, got %v", KindDecode, KindOf(err))
	}

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Path != inputPath {
		t.Errorf("Expected error to carry source path %q, got %v", inputPath, err)
	}
}

func TestConverter_Convert_UnwritableOutput(t *testing.T) {
	converter := NewConverter(zaptest.NewLogger(t))

	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.png")
	createTestImage(t, 10, 10, false, inputPath)

	err := converter.Convert(inputPath, filepath.Join(tmpDir, "missing", "out.png"), PNG{})
	if KindOf(err) != KindIO {
		t.Errorf("Expected kind %v, got %v", KindIO, KindOf(err))
	}
}

func TestConverter_Convert_NilTarget(t *testing.T) {
	converter := NewConverter(nil)

	err := converter.Convert("in.png", "out.png", nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
