// Package parse walks a working tree and extracts one FileEntry per source
// file: detected language, declared imports, top-level exported symbols,
// and a short summary pulled from the file's leading comment.
package parse

import (
	"bufio"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Language is the set of source languages this package can extract symbols
// and imports from via tree-sitter. Anything else still gets a FileEntry
// (for size/language-breakdown purposes) but no AST extraction.
type Language string

const (
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangRust       Language = "rust"
	LangUnknown    Language = ""
)

var extensionLanguage = map[string]Language{
	".go":  LangGo,
	".py":  LangPython,
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".ts":  LangTypeScript,
	".tsx": LangTypeScript,
	".rs":  LangRust,
}

var shebangLanguage = map[string]Language{
	"python":  LangPython,
	"python3": LangPython,
	"node":    LangJavaScript,
}

// detectLanguage classifies path by extension, falling back to a shebang
// read for extensionless scripts.
func detectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguage[ext]; ok {
		return lang
	}
	if ext != "" {
		return LangUnknown
	}
	return detectShebang(path)
}

func detectShebang(path string) Language {
	f, err := os.Open(path)
	if err != nil {
		return LangUnknown
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return LangUnknown
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return LangUnknown
	}
	for interpreter, lang := range shebangLanguage {
		if strings.HasSuffix(line, interpreter) || strings.Contains(line, "/"+interpreter+" ") {
			return lang
		}
	}
	return LangUnknown
}

// isBinaryExtension checks the configured ignore-list before falling back
// to content sniffing, so a repo-specific extension (e.g. a vendored .wasm)
// can be skipped without reading its bytes.
func isBinaryExtension(path string, configured []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range configured {
		if strings.ToLower(c) == ext {
			return true
		}
	}
	return false
}

// sniffBinary reads a small prefix and asks the standard MIME sniffer
// whether it looks like text; used when the extension alone doesn't say.
func sniffBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return false
	}
	ct := http.DetectContentType(buf[:n])
	return !strings.HasPrefix(ct, "text/") && ct != "application/json" && ct != "application/xml"
}
