// Package topics reads TREC-style topic files in the Touché XML layout.
package topics

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shanks-ir/argos/internal/errors"
)

// Topic is one retrieval topic. Immutable once parsed.
type Topic struct {
	Number      int    `xml:"number"`
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Narrative   string `xml:"narrative"`
}

// ID returns the topic identifier as emitted in run files.
func (t Topic) ID() string {
	return fmt.Sprintf("%d", t.Number)
}

type topicsFile struct {
	XMLName xml.Name `xml:"topics"`
	Topics  []Topic  `xml:"topic"`
}

// Read parses topics from r and returns them sorted by topic number.
// Line breaks inside descriptions and narratives are collapsed to spaces.
func Read(r io.Reader) ([]Topic, error) {
	var file topicsFile
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTopicsMalformed, fmt.Errorf("decoding topics: %w", err))
	}

	for i := range file.Topics {
		file.Topics[i].Title = clean(file.Topics[i].Title)
		file.Topics[i].Description = clean(file.Topics[i].Description)
		file.Topics[i].Narrative = clean(file.Topics[i].Narrative)
	}

	sort.Slice(file.Topics, func(i, j int) bool {
		return file.Topics[i].Number < file.Topics[j].Number
	})

	return file.Topics, nil
}

// ReadFile parses the topics file at path.
func ReadFile(path string) ([]Topic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("cannot open topics file %s", path), err)
	}
	defer f.Close()

	return Read(f)
}

// clean collapses CR/LF runs to single spaces and trims the result.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
