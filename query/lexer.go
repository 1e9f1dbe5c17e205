package query

import (
	"unicode"
	"unicode/utf8"
)

// Lexer turns a query string into tokens, looking at most one character
// ahead.
type Lexer struct {
	input string
	pos   int  // offset of ch
	next  int  // offset after ch
	ch    rune // current character, eof at end of input
}

const eof = -1

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = eof
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += w
}

// peekChar looks at the character after ch without advancing
func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch != eof && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

func isIdentChar(ch rune) bool {
	return ch == '.' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// readIdentifier consumes a run of letters, digits and dots.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.ch != eof && isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// single emits a one-character token.
func (l *Lexer) single(t TokenType) Token {
	l.readChar()
	return Token{Type: t}
}

// withEq emits withEq if ch is followed by '=', otherwise alone.
func (l *Lexer) withEq(alone, withEq TokenType) Token {
	if l.peekChar() == '=' {
		l.readChar()
		l.readChar()
		return Token{Type: withEq}
	}
	l.readChar()
	return Token{Type: alone}
}

// doubled emits t for a character that is only valid twice in a row: && and ||.
func (l *Lexer) doubled(t TokenType) (Token, error) {
	first, pos := l.ch, l.pos
	l.readChar()
	if l.ch == first {
		l.readChar()
		return Token{Type: t}, nil
	}
	want := string(first) + string(first)
	if l.ch == eof {
		return Token{}, newLexError(pos, "expected '%s' - found '%c<EOF>'", want, first)
	}
	return Token{}, newLexError(pos, "expected '%s' - found '%c%c'", want, first, l.ch)
}

// NextToken returns the next token. ok is false at end of input.
func (l *Lexer) NextToken() (tok Token, ok bool, err error) {
	l.skipWhitespace()

	switch l.ch {
	case eof:
		return Token{}, false, nil
	case '(':
		return l.single(TokenOpenParen), true, nil
	case ')':
		return l.single(TokenCloseParen), true, nil
	case '=':
		return l.single(TokenEq), true, nil
	case '<':
		return l.withEq(TokenLt, TokenLEq), true, nil
	case '>':
		return l.withEq(TokenGt, TokenGEq), true, nil
	case '!':
		return l.withEq(TokenNot, TokenNotEq), true, nil
	case '&':
		tok, err := l.doubled(TokenAnd)
		return tok, err == nil, err
	case '|':
		tok, err := l.doubled(TokenOr)
		return tok, err == nil, err
	}

	if isIdentChar(l.ch) {
		return Token{Type: TokenIdent, Value: l.readIdentifier()}, true, nil
	}
	return Token{}, false, newLexError(l.pos, "unexpected character '%c'", l.ch)
}

// Tokenize returns all tokens of input, or the first lex error.
func Tokenize(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, ok, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
