package arith

import (
	"strconv"
)

// Kind classifies the reason an expression could not be evaluated. A Kind is
// itself an error so that errors.Is(err, DivisionByZero) reports whether err
// is an *Error of that kind.
type Kind int8

const (
	_ Kind = iota
	// InvalidCharacter is a rune that cannot start any token.
	InvalidCharacter
	// MalformedNumber is a literal with a misplaced decimal point, or the end
	// of the input where a number was required.
	MalformedNumber
	// UnbalancedParentheses is an open parenthesis without its close or a
	// close parenthesis without its open.
	UnbalancedParentheses
	// UnexpectedToken is an operator or close parenthesis where an operand
	// was required.
	UnexpectedToken
	// TrailingInput is input remaining after a complete expression.
	TrailingInput
	// DivisionByZero is a division whose right operand evaluates to zero.
	DivisionByZero
	// TooDeep is nesting of parentheses and unary operators beyond the
	// parser's depth limit.
	TooDeep
)

var kindnames = [...]string{
	InvalidCharacter:      "InvalidCharacter",
	MalformedNumber:       "MalformedNumber",
	UnbalancedParentheses: "UnbalancedParentheses",
	UnexpectedToken:       "UnexpectedToken",
	TrailingInput:         "TrailingInput",
	DivisionByZero:        "DivisionByZero",
	TooDeep:               "TooDeep",
}

func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindnames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

func (k Kind) Error() string {
	return k.String()
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k <= 0 || int(k) >= len(kindnames) {
		return nil, &KindError{Text: k.String()}
	}
	return []byte(kindnames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range kindnames {
		if i > 0 && name == s {
			*k = Kind(i)
			return nil
		}
	}
	return &KindError{Text: s}
}

// KindError is an error decoding a Kind from text.
type KindError struct {
	// Text is the text that does not name a Kind.
	Text string
}

func (err *KindError) Error() string {
	return "unknown error kind " + strconv.Quote(err.Text)
}

// Error is an error evaluating an expression. It implements InputError.
type Error struct {
	// Kind is the class of the error.
	Kind Kind
	// Col is the position of the token that caused the error.
	Col int
	// Text is the offending token. For MalformedNumber, it is the literal
	// scanned up to and including the invalid rune, or empty if no number was
	// present at all.
	Text string
}

func (err *Error) Error() string {
	switch err.Kind {
	case InvalidCharacter:
		return errpos(err.Col, "invalid character "+strconv.Quote(err.Text))
	case MalformedNumber:
		if err.Text == "" {
			return errpos(err.Col, "expected number")
		}
		return errpos(err.Col, "invalid number format "+strconv.Quote(err.Text))
	case UnbalancedParentheses:
		switch err.Text {
		case "":
			return errpos(err.Col, "missing closing parenthesis")
		case ")":
			return errpos(err.Col, "close parenthesis with no open parenthesis")
		default:
			return errpos(err.Col, "missing closing parenthesis before "+strconv.Quote(err.Text))
		}
	case UnexpectedToken:
		return errpos(err.Col, "unexpected token "+strconv.Quote(err.Text))
	case TrailingInput:
		return errpos(err.Col, "unexpected input after expression: "+strconv.Quote(err.Text))
	case DivisionByZero:
		return errpos(err.Col, "division by zero")
	case TooDeep:
		return errpos(err.Col, "expression nested too deeply")
	default:
		return errpos(err.Col, err.Kind.String())
	}
}

// Pos returns the column of the token that caused the error.
func (err *Error) Pos() int {
	return err.Col
}

// Is reports whether target is the Kind of err.
func (err *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == err.Kind
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var _ InputError = (*Error)(nil)
