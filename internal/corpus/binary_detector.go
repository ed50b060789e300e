// Binary file detection for early rejection of non-text files
package corpus

import (
	"bytes"
	"path/filepath"
	"strings"
)

// BinaryDetector rejects files that should not become corpus documents
type BinaryDetector struct {
	binaryExtensions map[string]bool
}

// NewBinaryDetector creates a detector with the common binary extensions
func NewBinaryDetector() *BinaryDetector {
	exts := []string{
		// Fonts and images
		".woff", ".woff2", ".ttf", ".otf", ".eot",
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".tiff", ".tif",
		// Archives
		".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar", ".jar", ".war", ".ear",
		// Executables and objects
		".exe", ".dll", ".so", ".dylib", ".a", ".o", ".obj", ".bin",
		// Media
		".mp3", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".wav", ".flac", ".ogg",
		// Documents
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		// Databases and bytecode
		".db", ".sqlite", ".sqlite3", ".pyc", ".pyo", ".class", ".pickle", ".pkl",
	}
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return &BinaryDetector{binaryExtensions: m}
}

// IsBinaryByExtension checks if a file is binary based on its extension
func (bd *BinaryDetector) IsBinaryByExtension(path string) bool {
	return bd.binaryExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsBinaryContent checks the first 512 bytes for magic numbers and control bytes
func (bd *BinaryDetector) IsBinaryContent(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content[:min(512, len(content))]

	magics := [][]byte{
		{0x1F, 0x8B},             // gzip
		{0x50, 0x4B, 0x03, 0x04}, // ZIP
		{0x89, 0x50, 0x4E, 0x47}, // PNG
		{0xFF, 0xD8, 0xFF},       // JPEG
		{0x25, 0x50, 0x44, 0x46}, // PDF
		{0x7F, 0x45, 0x4C, 0x46}, // ELF
		{0xCA, 0xFE, 0xBA, 0xBE}, // Mach-O / Java class
	}
	for _, m := range magics {
		if bytes.HasPrefix(sample, m) {
			return true
		}
	}

	nullBytes, nonPrintable := 0, 0
	for _, b := range sample {
		if b == 0 {
			nullBytes++
		}
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			nonPrintable++
		}
	}

	// More than 1% NUL or 30% control bytes
	return nullBytes > len(sample)/100 || nonPrintable > len(sample)*30/100
}
