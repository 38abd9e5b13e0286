// Package dataset reads image datasets into [channels, height, width]
// tensors ready for a ConvNet.
package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/born-ml/primer/internal/tensor"
)

// IDX magic numbers (big-endian uint32 at the start of each file).
const (
	magicImages = 2051 // 0x00000803: unsigned byte, 3 dimensions
	magicLabels = 2049 // 0x00000801: unsigned byte, 1 dimension
)

// maxImageSize bounds rows*cols so a corrupt header cannot force a huge
// allocation.
const maxImageSize = 1 << 24

// ErrInvalidFormat is returned for inputs that are not well-formed IDX or CSV data.
var ErrInvalidFormat = errors.New("invalid dataset format")

// ReadIDXImages reads an IDX image file and returns one [1, rows, cols]
// tensor per image with pixels scaled from 0..255 to [0, 1].
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255), row-major
//
// limit caps the number of images read (0 = all).
func ReadIDXImages(r io.Reader, limit int) ([]*tensor.Tensor, error) {
	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("idx images: read header: %w", err)
	}
	if header.Magic != magicImages {
		return nil, fmt.Errorf("idx images: %w: magic %d, want %d", ErrInvalidFormat, header.Magic, magicImages)
	}
	if header.Rows == 0 || header.Cols == 0 || uint64(header.Rows)*uint64(header.Cols) > maxImageSize {
		return nil, fmt.Errorf("idx images: %w: image size %dx%d", ErrInvalidFormat, header.Rows, header.Cols)
	}

	count := int(header.Count)
	if limit > 0 && limit < count {
		count = limit
	}
	rows, cols := int(header.Rows), int(header.Cols)

	// Images are appended as they arrive; count comes from the header and
	// is not trusted for allocation.
	pixels := make([]byte, rows*cols)
	var images []*tensor.Tensor
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, pixels); err != nil {
			return nil, fmt.Errorf("idx images: read image %d: %w", i, unexpectedEOF(err))
		}
		images = append(images, scalePixels(pixels, tensor.Shape{1, rows, cols}))
	}
	return images, nil
}

// ReadIDXLabels reads an IDX label file.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
//
// limit caps the number of labels read (0 = all).
func ReadIDXLabels(r io.Reader, limit int) ([]int, error) {
	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("idx labels: read header: %w", err)
	}
	if header.Magic != magicLabels {
		return nil, fmt.Errorf("idx labels: %w: magic %d, want %d", ErrInvalidFormat, header.Magic, magicLabels)
	}

	count := int(header.Count)
	if limit > 0 && limit < count {
		count = limit
	}

	raw, err := io.ReadAll(io.LimitReader(r, int64(count)))
	if err != nil {
		return nil, fmt.Errorf("idx labels: %w", err)
	}
	if len(raw) < count {
		return nil, fmt.Errorf("idx labels: read %d of %d: %w", len(raw), count, io.ErrUnexpectedEOF)
	}

	labels := make([]int, count)
	for i, b := range raw {
		labels[i] = int(b)
	}
	return labels, nil
}

// unexpectedEOF reports a clean EOF mid-file as truncation.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func scalePixels(pixels []byte, shape tensor.Shape) *tensor.Tensor {
	t := tensor.Zeros(shape)
	data := t.Data()
	for i, p := range pixels {
		data[i] = float64(p) / 255.0
	}
	return t
}
