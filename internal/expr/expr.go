// Package expr parses single-variable math expressions against a fixed
// grammar and evaluates the resulting syntax tree directly. The grammar
// covers numbers, the variable x, the constants pi and e, + - * / with unary
// minus, ** or ^ for powers, parentheses, and the functions sin, cos, tan,
// sqrt, exp, log, ln, abs and pow(a, b).
package expr

import (
	"fmt"
	"math"
	"strconv"

	"simlab/internal/errors"
)

// Expr is a parsed expression of one variable, safe for concurrent Eval.
type Expr struct {
	root node
	src  string
}

// Parse compiles the source text into an expression tree. Syntax errors,
// unknown identifiers and unknown functions are reported as
// USER_EXPRESSION_ERROR with the offending position.
func Parse(src string) (*Expr, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, tokens: tokens}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return nil, p.errorAt(t, "unexpected %s", describe(t))
	}
	return &Expr{root: root, src: src}, nil
}

// Eval computes the expression at x. A result outside the reals (NaN or
// ±Inf, e.g. sqrt of a negative, log of zero, division by zero) is an
// evaluation failure at that point, not a value.
func (e *Expr) Eval(x float64) (float64, error) {
	v := e.root.eval(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.UserExpression(fmt.Sprintf("expression %q is undefined at x = %g", e.src, x), nil)
	}
	return v, nil
}

// String returns the source text the expression was parsed from.
func (e *Expr) String() string {
	return e.src
}

// functions is the whitelist of single-argument functions. log is the
// natural logarithm; ln is its alias.
var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"sqrt": math.Sqrt,
	"exp":  math.Exp,
	"log":  math.Log,
	"ln":   math.Log,
	"abs":  math.Abs,
}

// ----- syntax tree -----

type node interface {
	eval(x float64) float64
}

type numberNode float64

func (n numberNode) eval(float64) float64 { return float64(n) }

type variableNode struct{}

func (variableNode) eval(x float64) float64 { return x }

type negateNode struct {
	operand node
}

func (n *negateNode) eval(x float64) float64 { return -n.operand.eval(x) }

type binaryNode struct {
	op          byte // '+', '-', '*', '/', '^'
	left, right node
}

func (n *binaryNode) eval(x float64) float64 {
	l, r := n.left.eval(x), n.right.eval(x)
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	default:
		return math.Pow(l, r)
	}
}

type callNode struct {
	fn  func(float64) float64
	arg node
}

func (n *callNode) eval(x float64) float64 { return n.fn(n.arg.eval(x)) }

// ----- lexer -----

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPower
	tokenLParen
	tokenRParen
	tokenComma
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
	val  float64
}

func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			i = scanNumber(src, i)
			text := src[start:i]
			val, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, errors.UserExpression(fmt.Sprintf("parsing %q: bad number %q at position %d", src, text, start), nil)
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, pos: start, val: val})
		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || src[i] >= '0' && src[i] <= '9') {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: src[start:i], pos: start})
		case c == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				tokens = append(tokens, token{kind: tokenPower, text: "**", pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenStar, text: "*", pos: i})
				i++
			}
		case c == '^':
			tokens = append(tokens, token{kind: tokenPower, text: "^", pos: i})
			i++
		case c == '+':
			tokens = append(tokens, token{kind: tokenPlus, text: "+", pos: i})
			i++
		case c == '-':
			tokens = append(tokens, token{kind: tokenMinus, text: "-", pos: i})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokenSlash, text: "/", pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case c == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++
		default:
			return nil, errors.UserExpression(fmt.Sprintf("parsing %q: unexpected character %q at position %d", src, string(c), i), nil)
		}
	}
	return append(tokens, token{kind: tokenEOF, pos: len(src)}), nil
}

func scanNumber(src string, i int) int {
	for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
		i++
	}
	// Exponent part, only when followed by digits.
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && src[j] >= '0' && src[j] <= '9' {
			i = j
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
		}
	}
	return i
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// ----- parser -----

// Grammar, in precedence order (power is right-associative and binds
// tighter than unary minus, matching the usual convention where -x**2
// means -(x**2)):
//
//	expr    = term { ('+' | '-') term }
//	term    = unary { ('*' | '/') unary }
//	unary   = ('-' | '+') unary | power
//	power   = primary [ ('**' | '^') unary ]
//	primary = number | 'x' | 'pi' | 'e' | ident '(' args ')' | '(' expr ')'
type parser struct {
	src    string
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) error {
	if t := p.next(); t.kind != kind {
		return p.errorAt(t, "expected %s, found %s", what, describe(t))
	}
	return nil
}

func (p *parser) errorAt(t token, format string, args ...interface{}) error {
	detail := fmt.Sprintf(format, args...)
	return errors.UserExpression(fmt.Sprintf("parsing %q: %s at position %d", p.src, detail, t.pos), nil)
}

func describe(t token) string {
	if t.kind == tokenEOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q", t.text)
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokenPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &binaryNode{op: '+', left: left, right: right}
		case tokenMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &binaryNode{op: '-', left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokenStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &binaryNode{op: '*', left: left, right: right}
		case tokenSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &binaryNode{op: '/', left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	switch p.peek().kind {
	case tokenMinus:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negateNode{operand: operand}, nil
	case tokenPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokenPower {
		p.next()
		exponent, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: '^', left: base, right: exponent}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokenNumber:
		return numberNode(t.val), nil
	case tokenIdent:
		return p.parseIdent(t)
	case tokenLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRParen, `")"`); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errorAt(t, "unexpected %s", describe(t))
	}
}

func (p *parser) parseIdent(t token) (node, error) {
	switch t.text {
	case "x":
		return variableNode{}, nil
	case "pi":
		return numberNode(math.Pi), nil
	case "e":
		return numberNode(math.E), nil
	}

	if p.peek().kind != tokenLParen {
		return nil, p.errorAt(t, "unknown identifier %q", t.text)
	}
	p.next()

	if t.text == "pow" {
		base, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenComma, `","`); err != nil {
			return nil, err
		}
		exponent, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRParen, `")"`); err != nil {
			return nil, err
		}
		return &binaryNode{op: '^', left: base, right: exponent}, nil
	}

	fn, ok := functions[t.text]
	if !ok {
		return nil, p.errorAt(t, "unknown function %q", t.text)
	}
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokenRParen, `")"`); err != nil {
		return nil, err
	}
	return &callNode{fn: fn, arg: arg}, nil
}
