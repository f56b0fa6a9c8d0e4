// Package corpus parses the args.me JSON corpus into indexable documents.
package corpus

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shanks-ir/argos/internal/errors"
)

// Document is one parsed corpus record.
type Document struct {
	// ID is the externally visible argument identifier.
	ID string
	// Title is the discussion title the argument belongs to.
	Title string
	// Body is the conclusion followed by the first premise's text.
	Body string
	// Stance is the argument's stance (PRO/CON) toward the discussion.
	Stance string
}

// argument mirrors one record of the args.me JSON layout.
type argument struct {
	ID         string `json:"id"`
	Conclusion string `json:"conclusion"`
	Premises   []struct {
		Text   string `json:"text"`
		Stance string `json:"stance"`
	} `json:"premises"`
	Context struct {
		DiscussionTitle string `json:"discussionTitle"`
		Topic           string `json:"topic"`
	} `json:"context"`
}

// Parser streams documents out of one args.me corpus file. The file is a
// single JSON object whose "arguments" member is a large array; records
// are decoded one at a time so the whole corpus never lives in memory.
type Parser struct {
	dec *json.Decoder
}

// NewParser positions a parser at the start of the arguments array in r.
func NewParser(r io.Reader) (*Parser, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorpusMalformed, fmt.Errorf("reading corpus root: %w", err))
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrCodeCorpusMalformed, "corpus root should be an object", nil)
	}

	// Scan object members until the arguments array.
	for {
		tok, err = dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorpusMalformed, fmt.Errorf("scanning corpus members: %w", err))
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return nil, errors.New(errors.ErrCodeCorpusMalformed, "corpus has no arguments member", nil)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeCorpusMalformed, "unexpected token in corpus object", nil)
		}
		if name == "arguments" {
			break
		}
		// Skip the unprocessed member's value.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorpusMalformed, fmt.Errorf("skipping member %q: %w", name, err))
		}
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorpusMalformed, fmt.Errorf("reading arguments array: %w", err))
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New(errors.ErrCodeCorpusMalformed, "arguments member should be an array", nil)
	}

	return &Parser{dec: dec}, nil
}

// Next returns the next document, or io.EOF when the array is exhausted.
func (p *Parser) Next() (Document, error) {
	if !p.dec.More() {
		return Document{}, io.EOF
	}

	var arg argument
	if err := p.dec.Decode(&arg); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeCorpusMalformed, fmt.Errorf("decoding argument: %w", err))
	}
	if arg.ID == "" {
		return Document{}, errors.New(errors.ErrCodeCorpusMalformed, "argument without id", nil)
	}

	doc := Document{ID: arg.ID}

	var premiseText string
	if len(arg.Premises) > 0 {
		premiseText = arg.Premises[0].Text
		doc.Stance = arg.Premises[0].Stance
	}

	if arg.Context.DiscussionTitle != "" {
		doc.Title = arg.Context.DiscussionTitle
	} else {
		doc.Title = arg.Context.Topic
	}

	body := arg.Conclusion + " " + premiseText
	if len(body) <= 1 {
		// Keep empty arguments addressable in the index.
		body = "#"
	}
	doc.Body = body

	return doc, nil
}

// ParseFile parses every document in the corpus file at path, invoking fn
// for each. Parsing stops on the first error from fn.
func ParseFile(path string, fn func(Document) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("cannot open corpus file %s", path), err)
	}
	defer f.Close()

	p, err := NewParser(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for {
		doc, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
}
