//go:build ignore

// Generates a synthetic args.me style corpus for load testing the
// indexer. Usage: go run scripts/generate-test-corpus.go -arguments 100000 -output testdata/bench
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numArguments = flag.Int("arguments", 100000, "Number of arguments to generate")
	perFile      = flag.Int("per-file", 25000, "Arguments per corpus file")
	outputDir    = flag.String("output", "testdata/bench", "Output directory")
	seed         = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var discussionTitles = []string{
	"Should smoking be banned in public places",
	"Is vaping safer than smoking",
	"Should school uniforms be mandatory",
	"Is nuclear energy the answer to climate change",
	"Should college education be free",
	"Is social media harmful to teenagers",
	"Should the death penalty be abolished",
	"Is a universal basic income feasible",
}

var vocabulary = strings.Fields(`argument evidence study report policy health
risk benefit cost society freedom choice government regulation ban public
private school student energy climate carbon emission tax income work job
economy growth debate claim premise conclusion support oppose research data`)

type premise struct {
	Text   string `json:"text"`
	Stance string `json:"stance"`
}

type argumentContext struct {
	DiscussionTitle string `json:"discussionTitle"`
}

type argument struct {
	ID         string          `json:"id"`
	Conclusion string          `json:"conclusion"`
	Premises   []premise       `json:"premises"`
	Context    argumentContext `json:"context"`
}

type corpusFile struct {
	Arguments []argument `json:"arguments"`
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	written := 0
	fileNum := 0
	for written < *numArguments {
		n := min(*perFile, *numArguments-written)
		file := corpusFile{Arguments: make([]argument, n)}
		for i := range n {
			id := written + i
			stance := "PRO"
			if rng.Intn(2) == 0 {
				stance = "CON"
			}
			file.Arguments[i] = argument{
				ID:         fmt.Sprintf("bench-%06d", id),
				Conclusion: sentence(rng, 8),
				Premises:   []premise{{Text: sentence(rng, 60), Stance: stance}},
				Context:    argumentContext{DiscussionTitle: discussionTitles[rng.Intn(len(discussionTitles))]},
			}
		}

		path := filepath.Join(*outputDir, fmt.Sprintf("corpus-%03d.json", fileNum))
		if err := writeJSON(path, file); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		written += n
		fileNum++
	}

	fmt.Printf("Generated %d arguments in %d files under %s\n", written, fileNum, *outputDir)
}

func sentence(rng *rand.Rand, words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = vocabulary[rng.Intn(len(vocabulary))]
	}
	return strings.Join(parts, " ")
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	return enc.Encode(v)
}
