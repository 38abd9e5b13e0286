// Package main provides the primer CLI, which runs the ConvNet, LSTM and
// Transformer examples.
package main

import (
	"fmt"
	"log"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("primer: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("primer %s\n", version)
	case "cnn":
		err = runCNN(args)
	case "lstm":
		err = runLSTM(args)
	case "transformer":
		err = runTransformer(args)
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Println("primer - inference-only CNN, LSTM and Transformer")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version       Show version")
	fmt.Println("  cnn           Classify images with the ConvNet")
	fmt.Println("  lstm          Step the LSTM cell through a series")
	fmt.Println("  transformer   Run the Transformer over tokenized text")
	fmt.Println("")
	fmt.Println("Run 'primer <command> -h' for command flags.")
}
