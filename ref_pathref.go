package wirebind

import (
	"strconv"
	"strings"
)

// PathRef is the external location an Issue points at, rendered as a JSON
// Pointer. Values are immutable: every method returns a new PathRef.
//
// Records place field issues under the field's bound key ("price.amount"
// becomes /price/amount) and lists under the item index, so a reported path
// always names the spot in the wire payload rather than the internal name.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	// Path appends each segment of a dotted key.
	Path(dotted string) PathRef
	Pointer() string
}

// Root is the whole payload ("/").
func Root() PathRef { return pointer(nil) }

// At parses an already escaped JSON Pointer.
func At(ptr string) PathRef {
	var p pointer
	for _, tok := range strings.Split(ptr, "/") {
		if tok != "" {
			p = append(p, tok)
		}
	}
	return p
}

// pointer holds escaped reference tokens.
type pointer []string

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func (p pointer) push(tok string) pointer {
	return append(p[:len(p):len(p)], tok)
}

func (p pointer) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return p.push(tokenEscaper.Replace(name))
}

func (p pointer) Index(i int) PathRef { return p.push(strconv.Itoa(i)) }

func (p pointer) Path(dotted string) PathRef {
	var out PathRef = p
	for seg := range strings.SplitSeq(dotted, ".") {
		out = out.Field(seg)
	}
	return out
}

func (p pointer) Pointer() string { return "/" + strings.Join(p, "/") }
