package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/born-ml/primer/internal/dataset"
	"github.com/born-ml/primer/internal/nn"
	"github.com/born-ml/primer/internal/parallel"
	"github.com/born-ml/primer/internal/tensor"
)

func runCNN(args []string) error {
	fs := flag.NewFlagSet("cnn", flag.ExitOnError)
	images := fs.String("images", "", "IDX image file (e.g., t10k-images-idx3-ubyte); random image if empty")
	labels := fs.String("labels", "", "IDX label file matching -images")
	csvPath := fs.String("csv", "", "CSV file of label,pixel... rows (MNIST CSV layout); overrides -images")
	samples := fs.Int("samples", 5, "Max images to classify (0 = all)")
	seed := fs.Uint64("seed", 1, "Seed for parameter initialization")
	workers := fs.Int("workers", 0, "Goroutines per convolution (0 = sequential)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := nn.DefaultConvNetConfig()
	cfg.Seed = *seed
	if *workers > 0 {
		cfg.Parallel = parallel.Config{Enabled: true, NumWorkers: *workers, MinChunkSize: 1}
	}

	net, err := nn.NewConvNet(cfg)
	if err != nil {
		return err
	}
	fmt.Println(net)

	var inputs []*tensor.Tensor
	var truth []int
	if *csvPath != "" {
		inputs, truth, err = loadCSV(*csvPath, *samples, cfg.Height, cfg.Width)
	} else {
		inputs, truth, err = loadImages(*images, *labels, *samples, *seed)
	}
	if err != nil {
		return err
	}

	for i, img := range inputs {
		class, p, err := net.Predict(img)
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}

		line := fmt.Sprintf("image %d: class %d (p=%.4f)", i, class, p)
		if truth != nil {
			line += fmt.Sprintf(" label %d", truth[i])
		}
		fmt.Println(line)
	}
	return nil
}

// loadImages reads IDX images (and optional labels) or, without a file,
// returns one random [1,28,28] image.
func loadImages(imagePath, labelPath string, limit int, seed uint64) ([]*tensor.Tensor, []int, error) {
	if imagePath == "" {
		img := nn.NewInitializer(seed + 1).Uniform(tensor.Shape{1, 28, 28})
		return []*tensor.Tensor{tensor.Map(img, func(v float64) float64 { return v + 0.5 })}, nil, nil
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	images, err := dataset.ReadIDXImages(f, limit)
	if err != nil {
		return nil, nil, err
	}
	if labelPath == "" {
		return images, nil, nil
	}

	lf, err := os.Open(labelPath)
	if err != nil {
		return nil, nil, err
	}
	defer lf.Close()

	labels, err := dataset.ReadIDXLabels(lf, len(images))
	if err != nil {
		return nil, nil, err
	}
	if len(labels) != len(images) {
		return nil, nil, fmt.Errorf("%d labels for %d images", len(labels), len(images))
	}
	return images, labels, nil
}

// loadCSV reads labelled height x width images from a CSV file.
func loadCSV(path string, limit, height, width int) ([]*tensor.Tensor, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	samples, err := dataset.ReadCSV(f, height, width, limit)
	if err != nil {
		return nil, nil, err
	}

	images := make([]*tensor.Tensor, len(samples))
	labels := make([]int, len(samples))
	for i, s := range samples {
		images[i], labels[i] = s.Image, s.Label
	}
	return images, labels, nil
}
