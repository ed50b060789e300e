// Package dump writes the index and per-document weights as tab separated
// text files: "key\t=>\tvalue", one entry per line.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/debug"
	scerrors "github.com/standardbeagle/semcouple/internal/errors"
	"github.com/standardbeagle/semcouple/internal/index"
	"github.com/standardbeagle/semcouple/internal/vector"
)

// Dump file names
const (
	IDFFile           = "idfs.txt"
	InvertedIndexFile = "invertedIndex.txt"
	TFFile            = "tf.txt"
	TFIDFFile         = "tfidf.txt"
)

const separator = "\t=>\t"

func formatFloat(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("refusing to write non-finite value %v", v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

// WriteIDFs writes "term\t=>\tidf" in vocabulary order
func WriteIDFs(w io.Writer, dict *index.Dictionary) error {
	idfs := dict.IDFs()
	for i, term := range dict.Vocabulary() {
		val, err := formatFloat(idfs[i])
		if err != nil {
			return fmt.Errorf("idf of %q: %w", term, err)
		}
		if _, err := io.WriteString(w, term+separator+val+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteInvertedIndex writes "term\t=>\t{docA, docB}" in vocabulary order.
// names maps document ID to document name.
func WriteInvertedIndex(w io.Writer, dict *index.Dictionary, names []string) error {
	for _, term := range dict.Vocabulary() {
		ids := dict.Postings(term)
		docs := make([]string, len(ids))
		for i, id := range ids {
			if id < 0 || id >= len(names) {
				return fmt.Errorf("posting for %q references unknown document %d", term, id)
			}
			docs[i] = names[id]
		}
		line := term + separator + "{" + strings.Join(docs, ", ") + "}\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteTF writes "term\t=>\tcount" in first-occurrence order
func WriteTF(w io.Writer, tf *corpus.TermFrequencies) error {
	var err error
	tf.Each(func(term string, count float64) {
		if err != nil {
			return
		}
		var val string
		if val, err = formatFloat(count); err != nil {
			err = fmt.Errorf("tf of %q: %w", term, err)
			return
		}
		_, err = io.WriteString(w, term+separator+val+"\n")
	})
	return err
}

// WriteTFIDF writes one value per line in vocabulary order, no labels
func WriteTFIDF(w io.Writer, v vector.Vector) error {
	for i, x := range v {
		val, err := formatFloat(x)
		if err != nil {
			return fmt.Errorf("tfidf[%d]: %w", i, err)
		}
		if _, err := io.WriteString(w, val+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile creates dir/name and streams fn's output into it through a buffer
func WriteFile(dir, name string, fn func(io.Writer) error) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return scerrors.NewFileError("mkdir", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return scerrors.NewFileError("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = scerrors.NewFileError("close", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return scerrors.NewFileError("write", path, err)
	}
	debug.Log("DUMP", "wrote %s\n", path)
	return nil
}

// WriteAll writes all four dump files for target into dir
func WriteAll(dir string, dict *index.Dictionary, names []string, target *corpus.Document) error {
	writers := []struct {
		name string
		fn   func(io.Writer) error
	}{
		{IDFFile, func(w io.Writer) error { return WriteIDFs(w, dict) }},
		{InvertedIndexFile, func(w io.Writer) error { return WriteInvertedIndex(w, dict, names) }},
		{TFFile, func(w io.Writer) error { return WriteTF(w, target.TF) }},
		{TFIDFFile, func(w io.Writer) error { return WriteTFIDF(w, target.Vector) }},
	}
	for _, wr := range writers {
		if err := WriteFile(dir, wr.name, wr.fn); err != nil {
			return err
		}
	}
	return nil
}
