// Package run orchestrates the retrieval strategies over a topic set and
// emits the ranked results in the TREC run format.
package run

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shanks-ir/argos/internal/errors"
)

// ScoredID is one entry of a final ranking: an external document
// identifier and its score.
type ScoredID struct {
	DocID string
	Score float64
}

// Writer emits run records. One line per ranked document:
//
//	<topicId>\tQ0\t<docId>\t<rank>\t<score>\t<runId>
//
// with 0-based ranks and scores formatted to six decimal places,
// matching the reference output byte for byte.
type Writer struct {
	w     *bufio.Writer
	file  *os.File
	runID string
}

// NewWriter wraps an arbitrary writer, for tests and pipes.
func NewWriter(w io.Writer, runID string) *Writer {
	return &Writer{w: bufio.NewWriter(w), runID: runID}
}

// CreateRunFile creates (truncating) <runID>.txt under dir.
func CreateRunFile(dir, runID string) (*Writer, error) {
	if runID == "" {
		return nil, errors.ConfigError("run identifier cannot be empty", nil)
	}
	path := filepath.Join(dir, runID+".txt")
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeRunWrite, fmt.Sprintf("cannot create run file %s", path), err)
	}
	w := NewWriter(f, runID)
	w.file = f
	return w, nil
}

// WriteRanking appends one topic's ranking and flushes, so a failed run
// still leaves every completed topic on disk.
func (w *Writer) WriteRanking(topicID string, ranking []ScoredID) error {
	for rank, doc := range ranking {
		if _, err := fmt.Fprintf(w.w, "%s\tQ0\t%s\t%d\t%.6f\t%s\n",
			topicID, doc.DocID, rank, doc.Score, w.runID); err != nil {
			return errors.New(errors.ErrCodeRunWrite, "cannot write run record", err)
		}
	}
	if err := w.w.Flush(); err != nil {
		return errors.New(errors.ErrCodeRunWrite, "cannot flush run output", err)
	}
	return nil
}

// Close flushes and closes the underlying file, if any.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return errors.New(errors.ErrCodeRunWrite, "cannot flush run output", err)
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
