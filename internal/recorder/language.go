package recorder

import (
	"path/filepath"
	"strings"
)

// PlainText is the language tag for files with no known extension.
const PlainText = "plaintext"

var extLanguages = map[string]string{
	".go":    "go",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "javascriptreact",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".py":    "python",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".java":  "java",
	".sh":    "shellscript",
	".bash":  "shellscript",
	".zsh":   "shellscript",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".json":  "json",
	".md":    "markdown",
	".html":  "html",
	".htm":   "html",
	".css":   "css",
	".sql":   "sql",
	".txt":   PlainText,
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".lua":   "lua",
}

var nameLanguages = map[string]string{
	"makefile":   "makefile",
	"dockerfile": "dockerfile",
}

// LanguageFor derives a language tag from a file name.
func LanguageFor(path string) string {
	base := filepath.Base(path)
	if lang, ok := nameLanguages[strings.ToLower(base)]; ok {
		return lang
	}
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(base))]; ok {
		return lang
	}
	return PlainText
}
