package expr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokWord
	tokColon
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokInt:
		return "integer"
	case tokWord:
		return "name"
	case tokColon:
		return "':'"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// token is a lexeme together with its byte span in the source.
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// isDeviceChar accepts the characters allowed after the first one in a device name.
func isDeviceChar(b byte) bool { return isAlpha(b) || isDigit(b) || b == '-' || b == '.' }

// isNameByte accepts the bytes of a device name written before ':'. Bytes of
// multi-byte UTF-8 sequences are always accepted.
func isNameByte(b byte) bool { return !isSpace(b) && !strings.ContainsRune(":()+*/", rune(b)) }

// deviceNameEnd returns the end of the device name starting at i, or i when
// src[i:] does not start with one. A name is a run of name bytes not
// beginning with '-' and followed by ':', optionally after whitespace.
func deviceNameEnd(src string, i int) int {
	if i >= len(src) || src[i] == '-' {
		return i
	}
	end := i
	for end < len(src) && isNameByte(src[end]) {
		end++
	}
	if end == i {
		return i
	}
	j := end
	for j < len(src) && isSpace(src[j]) {
		j++
	}
	if j >= len(src) || src[j] != ':' {
		return i
	}
	return end
}

// ValidDeviceName reports whether name can be written in an axis reference.
func ValidDeviceName(name string) bool {
	return name != "" && deviceNameEnd(name+":", 0) == len(name)
}

// isAxisChar accepts the characters of an axis name. '-' is excluded so that
// "a:X-b:Y" lexes as a subtraction.
func isAxisChar(b byte) bool { return isAlpha(b) || isDigit(b) }

// scan splits src into tokens. A run of name bytes followed by ':' is a
// device name, so "2-pad:X" names the device "2-pad"; write "2 - pad:X"
// to subtract. The word following a ':' is scanned with the stricter
// axis-name alphabet.
func scan(src string) ([]token, error) {
	var toks []token
	i := 0
	for {
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i >= len(src) {
			toks = append(toks, token{kind: tokEOF, start: len(src), end: len(src)})
			return toks, nil
		}

		start := i
		afterColon := len(toks) > 0 && toks[len(toks)-1].kind == tokColon
		if !afterColon {
			if end := deviceNameEnd(src, i); end > i {
				toks = append(toks, token{kind: tokWord, text: src[i:end], start: i, end: end})
				i = end
				continue
			}
		}
		c := src[i]
		var kind tokenKind

		switch {
		case afterColon && isAxisChar(c):
			for i < len(src) && isAxisChar(src[i]) {
				i++
			}
			kind = tokWord
		case isDigit(c):
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			kind = tokInt
		case isAlpha(c):
			for i < len(src) && isDeviceChar(src[i]) {
				i++
			}
			kind = tokWord
		default:
			i++
			switch c {
			case ':':
				kind = tokColon
			case '+':
				kind = tokPlus
			case '-':
				kind = tokMinus
			case '*':
				kind = tokStar
			case '/':
				kind = tokSlash
			case '(':
				kind = tokLParen
			case ')':
				kind = tokRParen
			default:
				r, _ := utf8.DecodeRuneInString(src[start:])
				return nil, &ParseError{
					Input:    src,
					Offset:   start,
					Fragment: nearby(src, start),
					Msg:      fmt.Sprintf("unexpected character %q", r),
				}
			}
		}
		toks = append(toks, token{kind: kind, text: src[start:i], start: start, end: i})
	}
}
