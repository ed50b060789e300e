package dump

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/index"
	"github.com/standardbeagle/semcouple/internal/vector"
)

func fixture() ([]*corpus.Document, *index.Dictionary) {
	lists := [][]string{
		{"print", "x", "x"},
		{"print", "y"},
	}
	docs := make([]*corpus.Document, len(lists))
	for i, terms := range lists {
		docs[i] = &corpus.Document{ID: i, Name: []string{"a.c", "b.c"}[i], Terms: terms, TF: corpus.BuildTermFrequencies(terms)}
	}
	dict := index.Build(docs)
	for _, d := range docs {
		d.Vector = vector.TFIDF(d.TF, dict)
	}
	return docs, dict
}

func TestWriteIDFs(t *testing.T) {
	_, dict := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteIDFs(&buf, dict))

	ln2 := "0.6931471805599453"
	assert.Equal(t, "print\t=>\t0\nx\t=>\t"+ln2+"\ny\t=>\t"+ln2+"\n", buf.String())
}

func TestWriteInvertedIndex(t *testing.T) {
	_, dict := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteInvertedIndex(&buf, dict, []string{"a.c", "b.c"}))
	assert.Equal(t, "print\t=>\t{a.c, b.c}\nx\t=>\t{a.c}\ny\t=>\t{b.c}\n", buf.String())
}

func TestWriteInvertedIndexUnknownDocument(t *testing.T) {
	_, dict := fixture()
	var buf bytes.Buffer
	assert.Error(t, WriteInvertedIndex(&buf, dict, []string{"a.c"}))
}

func TestWriteTF(t *testing.T) {
	var buf bytes.Buffer
	tf := corpus.BuildTermFrequencies([]string{"for", "i", "i", "i", "printf", "hello"})
	require.NoError(t, WriteTF(&buf, tf))
	assert.Equal(t, "for\t=>\t1\ni\t=>\t3\nprintf\t=>\t1\nhello\t=>\t1\n", buf.String())
}

func TestWriteTFIDF(t *testing.T) {
	docs, _ := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteTFIDF(&buf, docs[0].Vector))
	assert.Equal(t, "0\n1.3862943611198906\n0\n", buf.String())
}

func TestWriteTFIDFRejectsNaN(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteTFIDF(&buf, vector.Vector{1, math.NaN()}))
	assert.Error(t, WriteTFIDF(&buf, vector.Vector{math.Inf(1)}))
}

func TestWriteAll(t *testing.T) {
	docs, dict := fixture()
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, WriteAll(dir, dict, []string{"a.c", "b.c"}, docs[1]))

	for _, name := range []string{IDFFile, InvertedIndexFile, TFFile, TFIDFFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	tf, err := os.ReadFile(filepath.Join(dir, TFFile))
	require.NoError(t, err)
	assert.Equal(t, "print\t=>\t1\ny\t=>\t1\n", string(tf))
}
