package salary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	maxExprLength = 256
	maxExprDepth  = 32
)

var ErrInvalidExpression = errors.New("invalid expression")

// Variables a split-component formula may reference.
var splitFormulaVars = []string{"base", "gross", "other_allowance"}

// Expr is a parsed arithmetic expression over named variables. Only numbers,
// variables, parentheses and + - * / are accepted.
type Expr struct {
	source string
	root   exprNode
}

type exprNode interface {
	eval(vars map[string]float64) float64
}

type numberNode float64

func (n numberNode) eval(map[string]float64) float64 { return float64(n) }

type varNode string

func (n varNode) eval(vars map[string]float64) float64 { return vars[string(n)] }

type negNode struct{ operand exprNode }

func (n negNode) eval(vars map[string]float64) float64 { return -n.operand.eval(vars) }

type binaryNode struct {
	op          byte
	left, right exprNode
}

func (n binaryNode) eval(vars map[string]float64) float64 {
	left := n.left.eval(vars)
	right := n.right.eval(vars)
	switch n.op {
	case '+':
		return left + right
	case '-':
		return left - right
	case '*':
		return left * right
	case '/':
		if right == 0 {
			return 0
		}
		return left / right
	}
	return 0
}

// ParseExpr compiles src. When allowed is non-empty, any other variable name
// is rejected.
func ParseExpr(src string, allowed ...string) (*Expr, error) {
	if len(src) > maxExprLength {
		return nil, fmt.Errorf("%w: longer than %d characters", ErrInvalidExpression, maxExprLength)
	}
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidExpression)
	}
	p := &exprParser{tokens: tokens}
	if len(allowed) > 0 {
		p.allowed = make(map[string]bool, len(allowed))
		for _, name := range allowed {
			p.allowed[name] = true
		}
	}
	root, err := p.parseSum(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, p.tokens[p.pos].text)
	}
	return &Expr{source: src, root: root}, nil
}

// Eval evaluates the expression. Unknown variables read as zero and division
// by zero yields zero.
func (e *Expr) Eval(vars map[string]float64) float64 {
	if e == nil || e.root == nil {
		return 0
	}
	return e.root.eval(vars)
}

func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+' || r == '-' || r == '*' || r == '/':
			tokens = append(tokens, token{kind: tokOp, text: string(r)})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")"})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidExpression, text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, num: value})
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: strings.ToLower(string(runes[start:i]))})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidExpression, r)
		}
	}
	return tokens, nil
}

type exprParser struct {
	tokens  []token
	pos     int
	allowed map[string]bool
}

func (p *exprParser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *exprParser) parseSum(depth int) (exprNode, error) {
	left, err := p.parseProduct(depth)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.parseProduct(depth)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: tok.text[0], left: left, right: right}
	}
}

func (p *exprParser) parseProduct(depth int) (exprNode, error) {
	left, err := p.parseUnary(depth)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary(depth)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: tok.text[0], left: left, right: right}
	}
}

func (p *exprParser) parseUnary(depth int) (exprNode, error) {
	if depth > maxExprDepth {
		return nil, fmt.Errorf("%w: nested too deeply", ErrInvalidExpression)
	}
	tok, ok := p.peek()
	if ok && tok.kind == tokOp && (tok.text == "-" || tok.text == "+") {
		p.pos++
		operand, err := p.parseUnary(depth + 1)
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			return negNode{operand: operand}, nil
		}
		return operand, nil
	}
	return p.parsePrimary(depth)
}

func (p *exprParser) parsePrimary(depth int) (exprNode, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end", ErrInvalidExpression)
	}
	p.pos++
	switch tok.kind {
	case tokNumber:
		return numberNode(tok.num), nil
	case tokIdent:
		if p.allowed != nil && !p.allowed[tok.text] {
			return nil, fmt.Errorf("%w: unknown variable %q", ErrInvalidExpression, tok.text)
		}
		return varNode(tok.text), nil
	case tokLParen:
		inner, err := p.parseSum(depth + 1)
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidExpression)
		}
		p.pos++
		return inner, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, tok.text)
	}
}
