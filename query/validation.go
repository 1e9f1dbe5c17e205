package query

import (
	"fmt"
)

// Validation constants to prevent DoS and resource exhaustion
const (
	// MaxQueryLength is the maximum allowed query string length (1MB)
	MaxQueryLength = 1024 * 1024

	// MaxTokens is the maximum number of tokens in a query
	MaxTokens = 10000

	// MaxExpressionDepth is the maximum nesting depth for expressions
	MaxExpressionDepth = 100

	// MaxIdentifierLength is the maximum length for a column name or literal
	MaxIdentifierLength = 256
)

// ValidateQuery checks the raw query size before lexing
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("%w: query is %d bytes (max %d)", ErrLimit, len(query), MaxQueryLength)
	}
	return nil
}

// ValidateTokens checks token count and identifier lengths
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrLimit, len(tokens), MaxTokens)
	}
	for _, tok := range tokens {
		if tok.Type == TokenIdent && len(tok.Value) > MaxIdentifierLength {
			return fmt.Errorf("%w: identifier of %d chars (max %d)", ErrLimit, len(tok.Value), MaxIdentifierLength)
		}
	}
	return nil
}

// ExpressionDepthCounter tracks expression nesting depth
type ExpressionDepthCounter struct {
	depth    int
	maxDepth int
}

// NewExpressionDepthCounter creates a new depth counter
func NewExpressionDepthCounter() *ExpressionDepthCounter {
	return &ExpressionDepthCounter{depth: 0, maxDepth: MaxExpressionDepth}
}

// Enter increments depth and returns error if limit exceeded
func (c *ExpressionDepthCounter) Enter() error {
	c.depth++
	if c.depth > c.maxDepth {
		return fmt.Errorf("%w: expression nesting %d (max %d)", ErrLimit, c.depth, c.maxDepth)
	}
	return nil
}

// Exit decrements depth
func (c *ExpressionDepthCounter) Exit() {
	c.depth--
}
