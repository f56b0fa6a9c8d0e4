// Package wordnet reads a WordNet 3.x dictionary directory and exposes
// synonym lookup over its noun and adjective synsets.
package wordnet

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shanks-ir/argos/internal/errors"
)

// PartOfSpeech selects which WordNet index a lookup consults.
type PartOfSpeech string

const (
	Noun      PartOfSpeech = "noun"
	Adjective PartOfSpeech = "adj"
)

// Database is an in-memory snapshot of the noun and adjective sections of
// a WordNet dict directory (index.noun, data.noun, index.adj, data.adj).
// The snapshot is immutable after Open, so lookups are deterministic.
type Database struct {
	// senses maps lemma -> synset offsets, per part of speech.
	senses map[PartOfSpeech]map[string][]int64
	// words maps synset offset -> word forms, per part of speech.
	words map[PartOfSpeech]map[int64][]string
}

// Open loads the noun and adjective index and data files from dir.
func Open(dir string) (*Database, error) {
	db := &Database{
		senses: make(map[PartOfSpeech]map[string][]int64),
		words:  make(map[PartOfSpeech]map[int64][]string),
	}

	for _, pos := range []PartOfSpeech{Noun, Adjective} {
		senses, err := readIndexFile(filepath.Join(dir, "index."+string(pos)))
		if err != nil {
			return nil, err
		}
		words, err := readDataFile(filepath.Join(dir, "data."+string(pos)))
		if err != nil {
			return nil, err
		}
		db.senses[pos] = senses
		db.words[pos] = words
	}

	return db, nil
}

// LookupSynonyms returns every word form of every synset the term belongs
// to for the given part of speech. Collocations come back with spaces
// between words. An unknown term yields nil.
func (db *Database) LookupSynonyms(term string, pos PartOfSpeech) []string {
	lemma := strings.ReplaceAll(strings.ToLower(term), " ", "_")

	offsets := db.senses[pos][lemma]
	if len(offsets) == 0 {
		return nil
	}

	var forms []string
	for _, off := range offsets {
		forms = append(forms, db.words[pos][off]...)
	}
	return forms
}

// readIndexFile parses a WordNet index file into lemma -> offsets.
// Header lines start with whitespace and are skipped.
func readIndexFile(path string) (map[string][]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.LexicalError(fmt.Sprintf("cannot open wordnet index %s", path), err)
	}
	defer f.Close()

	senses := make(map[string][]int64)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == ' ' {
			continue
		}

		// lemma pos synset_cnt p_cnt [ptr...] sense_cnt tagsense_cnt offset...
		fields := strings.Fields(line)
		if len(fields) < 7 {
			continue
		}
		lemma := fields[0]
		synsetCnt, err := strconv.Atoi(fields[2])
		if err != nil || synsetCnt <= 0 {
			continue
		}
		if len(fields) < synsetCnt {
			continue
		}

		offsets := make([]int64, 0, synsetCnt)
		for _, raw := range fields[len(fields)-synsetCnt:] {
			off, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			offsets = append(offsets, off)
		}
		senses[lemma] = offsets
	}
	if err := sc.Err(); err != nil {
		return nil, errors.LexicalError(fmt.Sprintf("reading wordnet index %s", path), err)
	}

	return senses, nil
}

// readDataFile parses a WordNet data file into offset -> word forms.
func readDataFile(path string) (map[int64][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.LexicalError(fmt.Sprintf("cannot open wordnet data %s", path), err)
	}
	defer f.Close()

	words := make(map[int64][]string)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == ' ' {
			continue
		}

		// offset lex_filenum ss_type w_cnt (word lex_id){w_cnt} ... | gloss
		if i := strings.Index(line, " | "); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}

		offset, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		wcnt, err := strconv.ParseInt(fields[3], 16, 32)
		if err != nil || wcnt <= 0 {
			continue
		}

		forms := make([]string, 0, wcnt)
		for i := int64(0); i < wcnt; i++ {
			idx := 4 + 2*i
			if int(idx) >= len(fields) {
				break
			}
			forms = append(forms, cleanWordForm(fields[idx]))
		}
		words[offset] = forms
	}
	if err := sc.Err(); err != nil {
		return nil, errors.LexicalError(fmt.Sprintf("reading wordnet data %s", path), err)
	}

	return words, nil
}

// cleanWordForm strips adjective syntax markers like "(p)" and converts
// collocation underscores to spaces.
func cleanWordForm(w string) string {
	if i := strings.IndexByte(w, '('); i >= 0 && strings.HasSuffix(w, ")") {
		w = w[:i]
	}
	return strings.ReplaceAll(w, "_", " ")
}
