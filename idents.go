package hacfstar

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"github.com/hacspec-lang/hacfstar/ast"
	"github.com/hacspec-lang/hacfstar/doc"
)

// Identifier canonicalization: secret-integer width markers like U32 or I8
// become explicit int names (uint32, int8), the whole identifier is converted
// to snake case, and the F* keyword "new" is escaped. The patterns are
// compiled once at package init and the rewrite is a pure string function.
var (
	secretIntPat = regexp.MustCompile(`(U|I)(\d{1,3})`)
	// the signed marker leaves an iint artifact behind (I8 -> Iint8); collapse
	// it regardless of case so the result is int8, not iint8
	signedIntFixPat = regexp.MustCompile(`(?i)iint`)
)

func translateIdent(x ast.Ident) doc.Doc {
	return doc.Text(translateIdentStr(x.String()))
}

func translateIdentStr(s string) string {
	s = secretIntPat.ReplaceAllString(s, "${1}int${2}")
	s = signedIntFixPat.ReplaceAllString(s, "int")
	s = snakeCase(s)
	if s == "new" {
		s = "new_"
	}
	return s
}

// snakeCase lowercases s with underscores at word boundaries. Digits belong
// to the preceding word (Uint32 -> uint32), and a capital run ends a word
// before a following lowercase letter (XMLHttp -> xml_http).
func snakeCase(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes)+4)
	underscore := func() {
		if len(out) > 0 && out[len(out)-1] != '_' {
			out = append(out, '_')
		}
	}
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			underscore()
		case unicode.IsUpper(r):
			afterWord := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			acronymEnd := i > 0 && unicode.IsUpper(runes[i-1]) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if afterWord || acronymEnd {
				underscore()
			}
			out = append(out, unicode.ToLower(r))
		default:
			out = append(out, r)
		}
	}
	return strings.Trim(string(out), "_")
}

func hexLit(v *big.Int) string {
	if v.Sign() < 0 {
		return "-0x" + new(big.Int).Neg(v).Text(16)
	}
	return "0x" + v.Text(16)
}

func translateLiteral(lit ast.Literal) (doc.Doc, error) {
	switch l := lit.(type) {
	case ast.LitUnit:
		return doc.Text("()"), nil
	case ast.LitBool:
		if l {
			return doc.Text("true"), nil
		}
		return doc.Text("false"), nil
	case ast.LitInt:
		if l.Value == nil {
			return nil, invariantErrf("integer literal without a value")
		}
		if l.Bits == 0 {
			// machine-size integers use their decimal spelling
			if l.Signed {
				return doc.Text(fmt.Sprintf("isize %s", l.Value.String())), nil
			}
			return doc.Text(fmt.Sprintf("usize %s", l.Value.String())), nil
		}
		sign := "u"
		if l.Signed {
			sign = "i"
		}
		return doc.Text(fmt.Sprintf("pub_%s%d %s", sign, l.Bits, hexLit(l.Value))), nil
	case ast.LitStr:
		return doc.Text(fmt.Sprintf("%q", string(l))), nil
	}
	return nil, invariantErrf("unknown literal %T", lit)
}
