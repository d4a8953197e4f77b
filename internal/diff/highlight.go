package diff

import (
	"regexp"
	"strings"
)

// TokenKind is the lexical category of a highlighted token.
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenKeyword
	TokenString
	TokenNumber
	TokenComment
)

// String returns the category name used in markup classes.
func (k TokenKind) String() string {
	switch k {
	case TokenKeyword:
		return "keyword"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenComment:
		return "comment"
	default:
		return "plain"
	}
}

// Token is a run of text with a single lexical category.
type Token struct {
	Kind TokenKind
	Text string
}

// lexer holds the compiled rules for one language. The pattern always has four
// groups: comment, string, number, identifier.
type lexer struct {
	re       *regexp.Regexp
	keywords map[string]bool
}

const (
	numberPattern = `\b(?:0[xX][0-9a-fA-F_]+|\d[\d_]*(?:\.\d+)?(?:[eE][+-]?\d+)?)\b`
	identPattern  = `[A-Za-z_$][A-Za-z0-9_$]*`
	dqString      = `"(?:[^"\\\n]|\\.)*"`
	sqString      = `'(?:[^'\\\n]|\\.)*'`
	btString      = "`[^`]*`"
	slashComments = `//[^\n]*|/\*[\s\S]*?\*/`
	hashComments  = `#[^\n]*`
)

func newLexer(comments string, strs []string, keywords ...string) *lexer {
	pattern := "(" + comments + ")|(" + strings.Join(strs, "|") + ")|(" + numberPattern + ")|(" + identPattern + ")"
	kw := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		kw[k] = true
	}
	return &lexer{re: regexp.MustCompile(pattern), keywords: kw}
}

var (
	goLexer = newLexer(slashComments, []string{dqString, sqString, btString},
		"break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
		"map", "package", "range", "return", "select", "struct", "switch", "type",
		"var", "nil", "true", "false")

	jsLexer = newLexer(slashComments, []string{dqString, sqString, btString},
		"async", "await", "break", "case", "catch", "class", "const", "continue",
		"default", "delete", "do", "else", "export", "extends", "finally", "for",
		"from", "function", "if", "import", "in", "instanceof", "interface", "let",
		"new", "null", "of", "return", "switch", "this", "throw", "true", "false",
		"try", "type", "typeof", "undefined", "var", "void", "while", "yield")

	pythonLexer = newLexer(hashComments, []string{dqString, sqString},
		"and", "as", "assert", "async", "await", "break", "class", "continue",
		"def", "del", "elif", "else", "except", "False", "finally", "for", "from",
		"global", "if", "import", "in", "is", "lambda", "None", "nonlocal", "not",
		"or", "pass", "raise", "return", "True", "try", "while", "with", "yield")

	rustLexer = newLexer(slashComments, []string{dqString},
		"as", "async", "await", "break", "const", "continue", "crate", "else",
		"enum", "extern", "false", "fn", "for", "if", "impl", "in", "let", "loop",
		"match", "mod", "move", "mut", "pub", "ref", "return", "self", "Self",
		"static", "struct", "super", "trait", "true", "type", "unsafe", "use",
		"where", "while")

	cLexer = newLexer(slashComments, []string{dqString, sqString},
		"auto", "break", "case", "char", "class", "const", "continue", "default",
		"do", "double", "else", "enum", "extern", "float", "for", "if", "int",
		"long", "namespace", "new", "private", "public", "return", "short",
		"signed", "sizeof", "static", "struct", "switch", "template", "this",
		"typedef", "union", "unsigned", "void", "volatile", "while", "true",
		"false", "null", "final", "import", "package", "extends", "implements")

	shellLexer = newLexer(hashComments, []string{dqString, sqString},
		"case", "do", "done", "elif", "else", "esac", "export", "fi", "for",
		"function", "if", "in", "local", "return", "then", "until", "while")

	genericLexer = newLexer(slashComments+"|"+hashComments, []string{dqString, sqString})
)

var lexers = map[string]*lexer{
	"go":              goLexer,
	"javascript":      jsLexer,
	"javascriptreact": jsLexer,
	"typescript":      jsLexer,
	"typescriptreact": jsLexer,
	"python":          pythonLexer,
	"rust":            rustLexer,
	"c":               cLexer,
	"cpp":             cLexer,
	"csharp":          cLexer,
	"java":            cLexer,
	"shellscript":     shellLexer,
	"yaml":            shellLexer,
	"toml":            shellLexer,
}

func lookupLexer(language string) *lexer {
	lang := strings.ToLower(strings.TrimSpace(language))
	switch lang {
	case "", "plaintext", "text", "markdown":
		return nil
	}
	if lx, ok := lexers[lang]; ok {
		return lx
	}
	return genericLexer
}

// Tokenize splits text into lexical tokens for language. Concatenating the
// token texts always yields text. Plain text and markdown are not annotated.
func Tokenize(text, language string) []Token {
	if text == "" {
		return nil
	}
	lx := lookupLexer(language)
	if lx == nil {
		return []Token{{Kind: TokenPlain, Text: text}}
	}

	var toks []Token
	last := 0
	for _, m := range lx.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		kind := TokenPlain
		switch {
		case m[2] >= 0:
			kind = TokenComment
		case m[4] >= 0:
			kind = TokenString
		case m[6] >= 0:
			kind = TokenNumber
		case m[8] >= 0 && lx.keywords[text[start:end]]:
			kind = TokenKeyword
		}
		if kind == TokenPlain {
			continue
		}
		if start > last {
			toks = appendPlain(toks, text[last:start])
		}
		toks = append(toks, Token{Kind: kind, Text: text[start:end]})
		last = end
	}
	if last < len(text) {
		toks = appendPlain(toks, text[last:])
	}
	return toks
}

func appendPlain(toks []Token, text string) []Token {
	if n := len(toks); n > 0 && toks[n-1].Kind == TokenPlain {
		toks[n-1].Text += text
		return toks
	}
	return append(toks, Token{Kind: TokenPlain, Text: text})
}
