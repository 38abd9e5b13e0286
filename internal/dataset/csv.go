package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/born-ml/primer/internal/tensor"
)

// Sample is one labeled image.
type Sample struct {
	Image *tensor.Tensor // [1, height, width], values in [0, 1]
	Label int
}

// ReadCSV reads Kaggle-style image rows:
//
//	label,pixel0,pixel1,...
//	5,0,0,12,...,0
//
// The first row is a header and is skipped. Every row must carry
// height*width pixels in 0..255. maxSamples caps the rows read (0 = all).
func ReadCSV(r io.Reader, height, width, maxSamples int) ([]Sample, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("csv: %w: image size %dx%d", tensor.ErrInvalidConfig, height, width)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 1 + height*width
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("csv: %w: header: %w", ErrInvalidFormat, err)
	}

	pixels := make([]byte, height*width)
	var samples []Sample
	for row := 1; maxSamples <= 0 || len(samples) < maxSamples; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w: %w", ErrInvalidFormat, err)
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("csv: %w: label at row %d: %w", ErrInvalidFormat, row, err)
		}

		for i, field := range record[1:] {
			v, err := strconv.ParseUint(field, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("csv: %w: pixel %d at row %d: %w", ErrInvalidFormat, i, row, err)
			}
			pixels[i] = byte(v)
		}

		samples = append(samples, Sample{
			Image: scalePixels(pixels, tensor.Shape{1, height, width}),
			Label: label,
		})
	}
	return samples, nil
}
