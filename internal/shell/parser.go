package shell

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

var (
	ErrUnclosedQuote      = errors.New("unclosed quote")
	ErrUnescapedCharacter = errors.New("unescaped character")
	ErrUnsupported        = errors.New("unsupported syntax")
)

// Token is one word of a command line. Quoted is set when any part of the
// word came from quotes or an escape; such words are never glob expanded
// and never act as operators.
type Token struct {
	Text   string
	Quoted bool
}

// Word is an unquoted token
func Word(text string) Token {
	return Token{Text: text}
}

// Texts returns the token texts
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

// redirOps are the output redirections handed on to commands as tokens
var redirOps = map[syntax.RedirOperator]string{
	syntax.RdrOut: ">",
	syntax.ClbOut: ">",
	syntax.AppOut: ">>",
}

// Parser splits a line into tokens with the POSIX shell grammar: single
// quotes preserve everything, double quotes allow \" \\ \$ and \` escapes,
// and a backslash outside quotes escapes the next character. Only simple
// commands are accepted. Parameters and substitutions are kept as typed.
// An output redirection comes back as a ">" or ">>" token followed by its
// target, after the command's own words.
type Parser struct {
	parser  *syntax.Parser
	printer *syntax.Printer
}

func NewParser() *Parser {
	return &Parser{
		parser:  syntax.NewParser(syntax.Variant(syntax.LangBash)),
		printer: syntax.NewPrinter(),
	}
}

// Parse tokenizes line. Empty quotes produce an empty token.
func (p *Parser) Parse(line string) ([]Token, error) {
	line = strings.TrimSuffix(line, "\n")

	tokens, err := p.parse(line)
	if err == nil {
		return tokens, nil
	}

	var perr syntax.ParseError
	if !errors.As(err, &perr) {
		return nil, err
	}
	switch {
	case strings.Contains(perr.Text, "closing quote"):
		return nil, ErrUnclosedQuote
	case danglingBackslash(line):
		return nil, ErrUnescapedCharacter
	}

	// A redirection missing its target is handed to the command so it can
	// report the missing operand itself.
	if op, rest, ok := trailingRedirect(line); ok {
		if tokens, rerr := p.parse(rest); rerr == nil && len(tokens) > 0 {
			return append(tokens, Token{Text: op}), nil
		}
	}
	return nil, err
}

func (p *Parser) parse(line string) ([]Token, error) {
	file, err := p.parser.Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, err
	}
	switch len(file.Stmts) {
	case 0:
		return []Token{}, nil
	case 1:
		return p.statement(file.Stmts[0])
	default:
		return nil, fmt.Errorf("%w: command lists", ErrUnsupported)
	}
}

func (p *Parser) statement(stmt *syntax.Stmt) ([]Token, error) {
	if stmt.Background || stmt.Coprocess || stmt.Negated {
		return nil, fmt.Errorf("%w: job control", ErrUnsupported)
	}
	call, ok := stmt.Cmd.(*syntax.CallExpr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, commandKind(stmt.Cmd))
	}
	if len(call.Assigns) > 0 {
		return nil, fmt.Errorf("%w: variable assignment", ErrUnsupported)
	}

	tokens := make([]Token, 0, len(call.Args)+2*len(stmt.Redirs))
	for _, w := range call.Args {
		tok, err := p.word(w)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	for _, r := range stmt.Redirs {
		op, ok := redirOps[r.Op]
		if !ok || r.N != nil {
			return nil, fmt.Errorf("%w: redirection %s", ErrUnsupported, r.Op)
		}
		target, err := p.word(r.Word)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, Token{Text: op}, target)
	}
	return tokens, nil
}

func commandKind(cmd syntax.Command) string {
	switch c := cmd.(type) {
	case nil:
		return "redirection without a command"
	case *syntax.BinaryCmd:
		if c.Op == syntax.Pipe || c.Op == syntax.PipeAll {
			return "pipelines"
		}
		return "command lists"
	default:
		return "compound commands"
	}
}

func (p *Parser) word(w *syntax.Word) (Token, error) {
	var b strings.Builder
	var tok Token
	for _, part := range w.Parts {
		switch x := part.(type) {
		case *syntax.Lit:
			text, escaped, err := unescape(x.Value, false)
			if err != nil {
				return Token{}, err
			}
			b.WriteString(text)
			tok.Quoted = tok.Quoted || escaped
		case *syntax.SglQuoted:
			b.WriteString(x.Value)
			tok.Quoted = true
		case *syntax.DblQuoted:
			tok.Quoted = true
			for _, inner := range x.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					if err := p.literal(&b, inner); err != nil {
						return Token{}, err
					}
					continue
				}
				text, _, err := unescape(lit.Value, true)
				if err != nil {
					return Token{}, err
				}
				b.WriteString(text)
			}
		default:
			if err := p.literal(&b, part); err != nil {
				return Token{}, err
			}
		}
	}
	tok.Text = b.String()
	return tok, nil
}

// literal writes part back as its source text
func (p *Parser) literal(b *strings.Builder, part syntax.WordPart) error {
	return p.printer.Print(b, &syntax.Word{Parts: []syntax.WordPart{part}})
}

// unescape drops the backslashes the grammar keeps in literal text. Inside
// double quotes only \$ \` \" \\ and line continuations are escapes.
func unescape(raw string, quoted bool) (string, bool, error) {
	if !strings.Contains(raw, `\`) {
		return raw, false, nil
	}

	var b strings.Builder
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(raw) {
			return "", false, ErrUnescapedCharacter
		}
		i++
		next := raw[i]
		switch {
		case next == '\n':
		case quoted && !strings.ContainsRune("$`\"\\", rune(next)):
			b.WriteByte('\\')
			b.WriteByte(next)
		default:
			b.WriteByte(next)
			escaped = true
		}
	}
	return b.String(), escaped, nil
}

func danglingBackslash(line string) bool {
	n := len(line) - len(strings.TrimRight(line, `\`))
	return n%2 == 1
}

func trailingRedirect(line string) (op, rest string, ok bool) {
	trimmed := strings.TrimRight(line, " \t")
	for _, op := range []string{">>", ">"} {
		if rest, found := strings.CutSuffix(trimmed, op); found {
			return op, rest, true
		}
	}
	return "", "", false
}
