package introspect

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseTypeExpr parses a type expression into its alternatives.
//
// Supported syntax:
//
//	A|B            union; a "null" alternative marks every other one nullable
//	?T  *T         nullable
//	[]T  T[]       list, as do list<T>, array<T> and iterable<T>
//	map[K]V        map keyed by K, as do map<K,V> and array<K,V>
//	(T)            grouping, e.g. (?int)[]
//
// Names may contain letters, digits and the separators "_", ".", "/", "\"
// and "-". A leading "\" is dropped.
func ParseTypeExpr(expr string) ([]TypeRef, error) {
	p := &typeParser{src: expr}
	alts, err := p.union()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return normalizeNull(expr, alts)
}

// normalizeNull removes "null" alternatives and marks the rest nullable.
func normalizeNull(expr string, alts []TypeRef) ([]TypeRef, error) {
	out := make([]TypeRef, 0, len(alts))
	hasNull := false
	for _, a := range alts {
		if a.Collection == nil && strings.EqualFold(a.Name, "null") {
			hasNull = true
			continue
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("type expression %q has no non-null alternative", expr)
	}
	if hasNull {
		for i := range out {
			out[i].Nullable = true
		}
	}
	return out, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type expression %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) eof() bool { return p.pos >= len(p.src) }

func (p *typeParser) skipSpace() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *typeParser) consume(s string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *typeParser) expect(s string) error {
	if !p.consume(s) {
		if p.eof() {
			return p.errorf("expected %q, got end of input", s)
		}
		return p.errorf("expected %q", s)
	}
	return nil
}

func (p *typeParser) union() ([]TypeRef, error) {
	var alts []TypeRef
	for {
		t, err := p.single()
		if err != nil {
			return nil, err
		}
		alts = append(alts, t)
		if !p.consume("|") {
			return alts, nil
		}
	}
}

// element parses a collection element or group, which must resolve to a
// single alternative.
func (p *typeParser) element() (TypeRef, error) {
	start := p.pos
	alts, err := p.union()
	if err != nil {
		return TypeRef{}, err
	}
	alts, err = normalizeNull(p.src[start:p.pos], alts)
	if err != nil {
		return TypeRef{}, err
	}
	if len(alts) != 1 {
		return TypeRef{}, p.errorf("union %q is not allowed here", strings.TrimSpace(p.src[start:p.pos]))
	}
	return alts[0], nil
}

func (p *typeParser) single() (TypeRef, error) {
	p.skipSpace()
	if p.eof() {
		return TypeRef{}, p.errorf("expected a type, got end of input")
	}

	var t TypeRef
	switch {
	case p.consume("?"), p.consume("*"):
		inner, err := p.single()
		if err != nil {
			return TypeRef{}, err
		}
		inner.Nullable = true
		return inner, nil

	case p.consume("("):
		inner, err := p.element()
		if err != nil {
			return TypeRef{}, err
		}
		if err := p.expect(")"); err != nil {
			return TypeRef{}, err
		}
		t = inner

	case p.consume("[]"):
		elem, err := p.single()
		if err != nil {
			return TypeRef{}, err
		}
		return ListOf(elem), nil

	case p.consume("map["):
		key, err := p.single()
		if err != nil {
			return TypeRef{}, err
		}
		if key.Collection != nil {
			return TypeRef{}, p.errorf("map key must be a named type")
		}
		if err := p.expect("]"); err != nil {
			return TypeRef{}, err
		}
		value, err := p.single()
		if err != nil {
			return TypeRef{}, err
		}
		return MapOf(key.Name, value), nil

	default:
		name := p.ident()
		if name == "" {
			return TypeRef{}, p.errorf("unexpected %q", p.src[p.pos:p.pos+1])
		}
		if p.consume("<") {
			generic, err := p.generic(name)
			if err != nil {
				return TypeRef{}, err
			}
			t = generic
		} else {
			t = Named(name)
		}
	}

	for p.consume("[]") {
		t = ListOf(t)
	}
	return t, nil
}

func (p *typeParser) generic(name string) (TypeRef, error) {
	var args []TypeRef
	for {
		arg, err := p.element()
		if err != nil {
			return TypeRef{}, err
		}
		args = append(args, arg)
		if !p.consume(",") {
			break
		}
	}
	if err := p.expect(">"); err != nil {
		return TypeRef{}, err
	}

	switch strings.ToLower(name) {
	case "list", "array", "iterable":
		if len(args) == 1 {
			return ListOf(args[0]), nil
		}
		if len(args) == 2 && strings.ToLower(name) != "list" {
			return mapFromArgs(p, args)
		}
	case "map":
		if len(args) == 2 {
			return mapFromArgs(p, args)
		}
	}
	return TypeRef{}, p.errorf("unsupported generic %s with %d arguments", name, len(args))
}

func mapFromArgs(p *typeParser, args []TypeRef) (TypeRef, error) {
	if args[0].Collection != nil {
		return TypeRef{}, p.errorf("map key must be a named type")
	}
	return MapOf(args[0].Name, args[1]), nil
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for !p.eof() {
		r := rune(p.src[p.pos])
		if r == '\\' || r == '.' || r == '/' || r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) || r >= 0x80 {
			p.pos++
			continue
		}
		break
	}
	name := p.src[start:p.pos]
	if name == "interface" && strings.HasPrefix(p.src[p.pos:], "{}") {
		p.pos += 2
		return "interface{}"
	}
	return strings.TrimPrefix(name, `\`)
}
