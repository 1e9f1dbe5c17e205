package query

import "fmt"

// TokenType identifies the kind of a lexical token.
type TokenType int

const (
	TokenOpenParen  TokenType = iota // (
	TokenCloseParen                  // )
	TokenIdent                       // column name or literal constant
	TokenEq                          // =
	TokenNotEq                       // !=
	TokenLt                          // <
	TokenLEq                         // <=
	TokenGt                          // >
	TokenGEq                         // >=
	TokenNot                         // !
	TokenAnd                         // &&
	TokenOr                          // ||
)

var tokenText = map[TokenType]string{
	TokenOpenParen:  "(",
	TokenCloseParen: ")",
	TokenEq:         "=",
	TokenNotEq:      "!=",
	TokenLt:         "<",
	TokenLEq:        "<=",
	TokenGt:         ">",
	TokenGEq:        ">=",
	TokenNot:        "!",
	TokenAnd:        "&&",
	TokenOr:         "||",
}

func (t TokenType) String() string {
	if t == TokenIdent {
		return "ident"
	}
	if s, ok := tokenText[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a lexical token. Value is set only for identifiers; the lexer
// never produces an empty one.
type Token struct {
	Type  TokenType
	Value string
}

// Text returns the canonical source form of the token. Lexing the texts of a
// token sequence joined by spaces yields the same sequence.
func (t Token) Text() string {
	if t.Type == TokenIdent {
		return t.Value
	}
	return t.Type.String()
}

// String is used in parser error messages.
func (t Token) String() string {
	if t.Type == TokenIdent {
		return fmt.Sprintf("ident '%s'", t.Value)
	}
	return fmt.Sprintf("'%s'", t.Type)
}
