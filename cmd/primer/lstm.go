package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/primer/internal/nn"
)

func runLSTM(args []string) error {
	fs := flag.NewFlagSet("lstm", flag.ExitOnError)
	series := fs.String("series", "0.5,0.8,0.2,0.9,0.1", "Comma-separated input series")
	if err := fs.Parse(args); err != nil {
		return err
	}

	values, err := parseSeries(*series)
	if err != nil {
		return err
	}

	cell := nn.NewDefaultLSTMCell()
	fmt.Println(cell)

	for t, x := range values {
		y, err := cell.StepScalar(x)
		if err != nil {
			return fmt.Errorf("step %d: %w", t, err)
		}
		fmt.Printf("t=%d x=%.3f h=%.6f\n", t, x, y)
	}
	return nil
}

func parseSeries(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("series: %w", err)
		}
		values = append(values, v)
	}
	return values, nil
}
