package query

import "github.com/vegasq/csvfilt/schema"

// Grammar, entry symbol S:
//
//	S         := andOr
//	andOr     := expr ( ("&&" | "||") andOr )?
//	expr      := "!" bracketed | "(" S ")" | IDENT op IDENT
//	bracketed := "(" S ")"
//	op        := "=" | "!=" | "<" | "<=" | ">" | ">="
//
// && and || share one precedence level and associate to the right, so
// a && b || c is a && (b || c). Use brackets to group differently.

const endOfInput = "<EOL>"

// Parser builds an expression tree from tokens by recursive descent.
type Parser struct {
	tokens       []Token
	pos          int
	depthCounter *ExpressionDepthCounter
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:       tokens,
		pos:          0,
		depthCounter: NewExpressionDepthCounter(),
	}
}

// current returns the current token; ok is false at end of input
func (p *Parser) current() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// Parse tokenizes and parses a query string.
func Parse(query string) (Expr, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	tokens, err := Tokenize(query)
	if err != nil {
		return nil, err
	}

	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	return ParseTokens(tokens)
}

// ParseTokens parses a complete token sequence. Tokens left over after a
// full expression are an error.
func ParseTokens(tokens []Token) (Expr, error) {
	p := NewParser(tokens)
	expr, err := p.parseAndOr()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.current(); ok {
		return nil, newSyntaxError(p.pos, "unexpected %s after expression", tok)
	}
	return expr, nil
}

// parseAndOr parses expr, optionally followed by && or || and the rest of
// the chain.
func (p *Parser) parseAndOr() (Expr, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	tok, ok := p.current()
	if !ok {
		return left, nil
	}

	switch tok.Type {
	case TokenAnd:
		p.advance()
		right, err := p.parseAndOr()
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	case TokenOr:
		p.advance()
		right, err := p.parseAndOr()
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil
	default:
		return left, nil
	}
}

// parseExpr parses a negation, a bracketed query or a comparison.
func (p *Parser) parseExpr() (Expr, error) {
	tok, ok := p.current()
	if !ok {
		return nil, newSyntaxError(p.pos, "expected expr, got %s", endOfInput)
	}

	switch tok.Type {
	case TokenNot:
		p.advance()
		if err := p.expectOpen(); err != nil {
			return nil, err
		}
		inner, err := p.parseBracketed()
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil
	case TokenOpenParen:
		p.advance()
		return p.parseBracketed()
	case TokenIdent:
		p.advance()
		return p.parseComparison(tok.Value)
	default:
		return nil, newSyntaxError(p.pos, "expected expr, got %s", tok)
	}
}

func (p *Parser) expectOpen() error {
	tok, ok := p.current()
	if !ok {
		return newSyntaxError(p.pos, "expected '(', found %s", endOfInput)
	}
	if tok.Type != TokenOpenParen {
		return newSyntaxError(p.pos, "expected '(', found %s", tok)
	}
	p.advance()
	return nil
}

// parseBracketed parses S ")" once the opening bracket has been consumed.
func (p *Parser) parseBracketed() (Expr, error) {
	if err := p.depthCounter.Enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.Exit()

	inner, err := p.parseAndOr()
	if err != nil {
		return nil, err
	}

	tok, ok := p.current()
	if !ok {
		return nil, newSyntaxError(p.pos, "expected ')', found %s", endOfInput)
	}
	if tok.Type != TokenCloseParen {
		return nil, newSyntaxError(p.pos, "expected ')', found %s", tok)
	}
	p.advance()
	return inner, nil
}

// parseComparison parses `op IDENT` after the left identifier.
func (p *Parser) parseComparison(left string) (Expr, error) {
	op, err := p.parseOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &Comparison{Left: left, Op: op, Right: right}, nil
}

var comparisonOps = map[TokenType]schema.Operator{
	TokenEq:    schema.OpEq,
	TokenNotEq: schema.OpNotEq,
	TokenLt:    schema.OpLt,
	TokenLEq:   schema.OpLEq,
	TokenGt:    schema.OpGt,
	TokenGEq:   schema.OpGEq,
}

func (p *Parser) parseOp() (schema.Operator, error) {
	tok, ok := p.current()
	if !ok {
		return 0, newSyntaxError(p.pos, "expected op, got %s", endOfInput)
	}
	op, isOp := comparisonOps[tok.Type]
	if !isOp {
		return 0, newSyntaxError(p.pos, "expected op, got %s", tok)
	}
	p.advance()
	return op, nil
}

func (p *Parser) parseIdent() (string, error) {
	tok, ok := p.current()
	if !ok {
		return "", newSyntaxError(p.pos, "expected ident, got %s", endOfInput)
	}
	if tok.Type != TokenIdent {
		return "", newSyntaxError(p.pos, "expected ident, got %s", tok)
	}
	p.advance()
	return tok.Value, nil
}
