package shell

import (
	"github.com/tympanix/gosh/internal/util"
)

// expand replaces unquoted tokens holding glob characters with the sorted
// paths they match. A pattern without matches stays as typed.
func (s *Shell) expand(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Quoted || !util.HasMeta(tok.Text) {
			out = append(out, tok)
			continue
		}

		matches, err := util.Expand(s.ops.Fs(), s.dir.Get(), tok.Text)
		if err != nil {
			s.logger.VerbosePrintf("glob %s: %v\n", tok.Text, err)
			out = append(out, tok)
			continue
		}
		for _, m := range matches {
			out = append(out, Token{Text: m, Quoted: m != tok.Text})
		}
	}
	return out
}
