package expr

import (
	"fmt"
	"strconv"

	"github.com/vk/axisflow/internal/axis"
)

// Parse turns an expression string into a tree. Syntax errors are returned as
// *ParseError and unknown axis names as *UnknownAxisNameError.
func Parse(input string) (Expr, error) {
	toks, err := scan(input)
	if err != nil {
		return nil, err
	}
	p := &parser{src: input, toks: toks}

	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorAt(tok, fmt.Sprintf("unexpected %s", tok.kind))
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) peek() token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *parser) need(kind tokenKind, msg string) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return token{}, p.errorAt(t, fmt.Sprintf("%s, found %s", msg, t.kind))
	}
	return p.next(), nil
}

func (p *parser) errorAt(t token, msg string) *ParseError {
	frag := t.text
	if t.kind == tokEOF {
		frag = nearby(p.src, t.start)
	}
	return &ParseError{Input: p.src, Offset: t.start, Fragment: frag, Msg: msg}
}

// binaryOp returns the operator and binding power of an infix token.
func binaryOp(k tokenKind) (Operator, int, bool) {
	switch k {
	case tokPlus:
		return Add, 10, true
	case tokMinus:
		return Sub, 10, true
	case tokStar:
		return Mul, 20, true
	case tokSlash:
		return Div, 20, true
	}
	return 0, 0, false
}

// expr parses operands joined by operators whose binding power is at least
// minBP. Recursing with bp+1 makes every operator left-associative.
func (p *parser) expr(minBP int) (Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op, bp, ok := binaryOp(p.peek().kind)
		if !ok || bp < minBP {
			return left, nil
		}
		p.next()
		right, err := p.expr(bp + 1)
		if err != nil {
			return nil, err
		}
		left = BinaryOp{Op: op, Left: left, Right: right}
	}
}

func (p *parser) factor() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		return p.literal(t, t.text)

	case tokPlus, tokMinus:
		// A sign is only part of a literal when it touches the digits.
		digits := p.peek()
		if digits.kind != tokInt || digits.start != t.end {
			return nil, p.errorAt(t, fmt.Sprintf("unexpected %s", t.kind))
		}
		p.next()
		return p.literal(t, t.text+digits.text)

	case tokWord:
		return p.axisRef(t)

	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.need(tokRParen, "expected ')' to close '(' at offset "+strconv.Itoa(t.start)); err != nil {
			return nil, err
		}
		return inner, nil

	case tokEOF:
		return nil, p.errorAt(t, "expected expression")
	}
	return nil, p.errorAt(t, fmt.Sprintf("unexpected %s", t.kind))
}

func (p *parser) literal(at token, text string) (Expr, error) {
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return nil, &ParseError{Input: p.src, Offset: at.start, Fragment: text, Msg: "integer literal out of range"}
	}
	return Literal{Value: int32(v)}, nil
}

func (p *parser) axisRef(device token) (Expr, error) {
	if _, err := p.need(tokColon, fmt.Sprintf("expected ':' after device name %q", device.text)); err != nil {
		return nil, err
	}
	name, err := p.need(tokWord, "expected axis name")
	if err != nil {
		return nil, err
	}
	a, err := axis.Parse(name.text)
	if err != nil {
		return nil, &UnknownAxisNameError{Input: p.src, Offset: name.start, Name: name.text}
	}
	return AxisRef{Device: device.text, Axis: a}, nil
}
