package congress

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Canonicalizer = (*Normaliser)(nil)

// Normaliser canonicalizes congress.gov responses.
type Normaliser struct{}

// New creates a new congress.gov normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// record returns the object under key, or the root when the response is
// not wrapped in an envelope.
func record(raw domain.Object, key string) domain.Object {
	if obj, ok := raw.Lookup(key).AsObject(); ok {
		return obj
	}
	if raw == nil {
		return domain.Object{}
	}
	return raw
}

// list returns the objects under key. Both a bare array and an
// {"items": [...]} / {"item": [...]} wrapper are accepted.
func list(raw domain.Object, key string) ([]domain.Object, bool) {
	return objects(raw.Lookup(key))
}

func objects(v domain.Value) ([]domain.Object, bool) {
	if wrapped, ok := v.AsObject(); ok {
		for _, inner := range []string{"items", "item"} {
			if arr, ok := wrapped.Lookup(inner).AsArray(); ok {
				return objectsOf(arr), true
			}
		}
		return []domain.Object{}, false
	}
	arr, ok := v.AsArray()
	if !ok {
		return []domain.Object{}, false
	}
	return objectsOf(arr), true
}

func objectsOf(arr []domain.Value) []domain.Object {
	out := make([]domain.Object, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.AsObject(); ok {
			out = append(out, obj)
		}
	}
	return out
}

// fields reads typed fields from one object and records a diagnostic for
// every field that is present but unreadable, or required but missing.
type fields struct {
	obj    domain.Object
	prefix string
	diags  *[]domain.Diagnostic
}

func newFields(obj domain.Object, prefix string, diags *[]domain.Diagnostic) fields {
	return fields{obj: obj, prefix: prefix, diags: diags}
}

func (f fields) note(field, reason string) {
	*f.diags = append(*f.diags, domain.Diagnostic{Field: f.prefix + field, Reason: reason})
}

func (f fields) at(field string) fields {
	obj, _ := f.obj.Lookup(field).AsObject()
	return fields{obj: obj, prefix: f.prefix + field + ".", diags: f.diags}
}

// str returns the first non-empty string among the named fields.
func (f fields) str(names ...string) string {
	for _, name := range names {
		if s, ok := f.obj.Lookup(name).AsString(); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func (f fields) requiredStr(names ...string) string {
	s := f.str(names...)
	if s == "" {
		f.note(names[0], "missing")
	}
	return s
}

func (f fields) integer(name string) int {
	v := f.obj.Lookup(name)
	if v.IsNull() {
		return 0
	}
	n, ok := v.AsInt()
	if !ok {
		f.note(name, fmt.Sprintf("not an integer (%s)", v.Kind()))
		return 0
	}
	return n
}

func (f fields) requiredInt(name string) int {
	if f.obj.Lookup(name).IsNull() {
		f.note(name, "missing")
		return 0
	}
	return f.integer(name)
}

func (f fields) boolean(name string, def bool) bool {
	v := f.obj.Lookup(name)
	if v.IsNull() {
		return def
	}
	b, ok := v.AsBool()
	if !ok {
		f.note(name, fmt.Sprintf("not a boolean (%s)", v.Kind()))
		return def
	}
	return b
}

// date returns the first readable date among the named fields.
func (f fields) date(names ...string) time.Time {
	for _, name := range names {
		v := f.obj.Lookup(name)
		if v.IsNull() {
			continue
		}
		if t, ok := v.AsTime(); ok {
			return t
		}
		f.note(name, "unparseable date")
	}
	return time.Time{}
}

// chamber maps the upstream's chamber spellings to "house", "senate" or "joint".
func chamber(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "house"):
		return "house"
	case strings.HasPrefix(s, "senate"):
		return "senate"
	case strings.HasPrefix(s, "joint"):
		return "joint"
	default:
		return s
	}
}
