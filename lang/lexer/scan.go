package lexer

import (
	"os"

	"github.com/zinc-lang/zinc/lang/token"
)

// TokenAndValue pairs a Token with its decoded Value, the unit the parser
// consumes.
type TokenAndValue struct {
	Token token.Token
	Value Value
}

// ScanFiles tokenizes each file in turn (registering it with a fresh
// FileSet) and returns the tokens grouped by file index, plus any lexical
// errors accumulated across all of them. This mirrors the teacher's
// scanner.ScanFiles helper, used by the "tokenize" CLI command.
func ScanFiles(files ...string) (*token.FileSet, [][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var (
		lx Lexer
		el token.ErrorList
	)

	fs := token.NewFileSet()
	out := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}

		f := fs.AddFile(file, -1, len(b))
		lx.Init(f, b, el.Add)
		for {
			tok, val := lx.scanOne()
			if tok == token.COMMENT {
				continue
			}
			out[i] = append(out[i], TokenAndValue{Token: tok, Value: val})
			if tok == token.EOF {
				break
			}
		}
	}
	el.Sort()
	return fs, out, el.Err()
}
