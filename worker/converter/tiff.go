package converter

import (
	"fmt"
	"sync"
)

// TIFF writes 8-bit RGBA TIFF. Compression is normally derived from Quality
// with CompressionFor.
type TIFF struct {
	Compression Compression
	Quality     int
}

func (TIFF) Format() Format { return FormatTIFF }

func (t TIFF) convert(inputPath, outputPath string) error {
	backend, err := tiffBackendInstance()
	if err != nil {
		return newError(KindEncode, "init tiff backend", inputPath, err)
	}
	return backend.convert(inputPath, outputPath, t.Compression, t.Quality)
}

// tiffBackend does the actual TIFF write. The pure Go backend is the default;
// building with -tags imagick selects the ImageMagick one.
type tiffBackend interface {
	name() string
	convert(inputPath, outputPath string, compression Compression, quality int) error
}

var (
	tiffOnce    sync.Once
	tiffShared  tiffBackend
	tiffInitErr error
)

// InitTIFFBackend performs the process-wide TIFF backend setup. Only the first
// call does any work; later calls return the first call's result. There is no
// teardown short of process exit.
func InitTIFFBackend() error {
	tiffOnce.Do(func() {
		tiffShared, tiffInitErr = newTIFFBackend()
		if tiffInitErr != nil {
			tiffInitErr = fmt.Errorf("tiff backend: %w", tiffInitErr)
		}
	})
	return tiffInitErr
}

// TIFFBackendName reports which backend InitTIFFBackend selected.
func TIFFBackendName() string {
	if err := InitTIFFBackend(); err != nil {
		return ""
	}
	return tiffShared.name()
}

func tiffBackendInstance() (tiffBackend, error) {
	if err := InitTIFFBackend(); err != nil {
		return nil, err
	}
	return tiffShared, nil
}
