package ast

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Symbol is the leading tag of an s-expression list, e.g. :scenario_outline.
type Symbol string

func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(":" + string(s))
}

// Sexp is a nested list of Symbols, strings, ints and further Sexps.
type Sexp []any

// FormatSexp renders s as Lisp-style text:
//
//	(:scenario_outline "Scenario Outline" "eating" (:step 3 "Given" "I have <start> cukes"))
func FormatSexp(s Sexp) string {
	var b strings.Builder
	writeSexp(&b, s)
	return b.String()
}

func writeSexp(b *strings.Builder, s Sexp) {
	b.WriteByte('(')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch x := v.(type) {
		case Symbol:
			b.WriteString(":" + string(x))
		case string:
			b.WriteString(strconv.Quote(x))
		case int:
			b.WriteString(strconv.Itoa(x))
		case Sexp:
			writeSexp(b, x)
		default:
			fmt.Fprintf(b, "%v", x)
		}
	}
	b.WriteByte(')')
}
