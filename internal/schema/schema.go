// Package schema maps collection names to their field schemas and validates
// write payloads against them. Every content collection shares the same CRUD
// mechanics; this registry is the only per-collection variation.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type FieldType int

const (
	TypeString FieldType = iota
	TypeStringList
	TypeInt
	TypeBool
)

// Field describes one schema field. Enum, when non-nil, restricts a string
// field to a closed set of literals. Default is written for optional fields
// absent from a full-document payload.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Enum     []string
	Default  any
}

type Schema struct {
	Collection string
	Fields     []Field
}

// FieldError is one offending field in a rejected payload. Validation
// collects every error, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var registry = map[string]Schema{
	"newsarticle": {Collection: "newsarticle", Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "content", Type: TypeString, Required: true},
		{Name: "author", Type: TypeString},
		{Name: "tags", Type: TypeStringList},
		{Name: "cover_image", Type: TypeString},
		{Name: "published_at", Type: TypeString},
	}},
	"announcement": {Collection: "announcement", Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "content", Type: TypeString, Required: true},
		{Name: "start_date", Type: TypeString},
		{Name: "end_date", Type: TypeString},
		{Name: "audience", Type: TypeStringList},
	}},
	"galleryitem": {Collection: "galleryitem", Fields: []Field{
		{Name: "title", Type: TypeString},
		{Name: "image_url", Type: TypeString, Required: true},
		{Name: "category", Type: TypeString},
		{Name: "caption", Type: TypeString},
	}},
	"admissioninfo": {Collection: "admissioninfo", Fields: []Field{
		{Name: "year", Type: TypeString, Required: true},
		{Name: "description", Type: TypeString, Required: true},
		{Name: "requirements", Type: TypeStringList},
		{Name: "important_dates", Type: TypeStringList},
		{Name: "registration_link", Type: TypeString},
	}},
	"academiccalendarevent": {Collection: "academiccalendarevent", Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "date", Type: TypeString, Required: true},
		{Name: "description", Type: TypeString},
		{Name: "category", Type: TypeString}, // e.g. libur, ujian, kegiatan
	}},
	"scheduleentry": {Collection: "scheduleentry", Fields: []Field{
		{Name: "type", Type: TypeString, Required: true, Enum: []string{"pelajaran", "ujian", "piket_guru"}},
		{Name: "day", Type: TypeString}, // e.g. Senin, Selasa
		{Name: "time", Type: TypeString},
		{Name: "subject", Type: TypeString},
		{Name: "class_name", Type: TypeString},
		{Name: "teacher", Type: TypeString},
		{Name: "notes", Type: TypeString},
	}},
	"orgnode": {Collection: "orgnode", Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "name", Type: TypeString},
		// Hex id of the parent node. Not checked against the store; cycles
		// and dangling references are possible.
		{Name: "parent_id", Type: TypeString},
		{Name: "order", Type: TypeInt, Default: 0},
	}},
	"staff": {Collection: "staff", Fields: []Field{
		{Name: "name", Type: TypeString, Required: true},
		{Name: "role", Type: TypeString, Required: true},
		{Name: "email", Type: TypeString},
		{Name: "phone", Type: TypeString},
		{Name: "photo_url", Type: TypeString},
		{Name: "department", Type: TypeString},
	}},
	"extracurricular": {Collection: "extracurricular", Fields: []Field{
		{Name: "name", Type: TypeString, Required: true},
		{Name: "coach", Type: TypeString},
		{Name: "description", Type: TypeString},
		{Name: "schedule", Type: TypeString},
		{Name: "photo_url", Type: TypeString},
	}},
	"schoolpage": {Collection: "schoolpage", Fields: []Field{
		{Name: "key", Type: TypeString, Required: true, Enum: PageKeys},
		{Name: "title", Type: TypeString},
		{Name: "content", Type: TypeString},
	}},
	"achievement": {Collection: "achievement", Fields: []Field{
		{Name: "title", Type: TypeString, Required: true},
		{Name: "description", Type: TypeString},
		{Name: "date", Type: TypeString},
		{Name: "images", Type: TypeStringList},
	}},
}

// PageKeys is the closed set of singleton page keys.
var PageKeys = []string{"sejarah", "visi_misi", "fasilitas", "kontak_alamat"}

func IsPageKey(key string) bool {
	for _, k := range PageKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Resolve looks up the schema for a collection name. Names are case-sensitive
// lowercase identifiers.
func Resolve(collection string) (Schema, bool) {
	s, ok := registry[collection]
	return s, ok
}

// Collections returns the known collection names, sorted.
func Collections() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks a full create payload: required fields present, types and
// enums respected, no unknown fields. Optional absent fields receive their
// defaults. Returns the validated document or every field error found.
func (s Schema) Validate(data map[string]any) (bson.M, []FieldError) {
	doc := bson.M{}
	var errs []FieldError

	for _, f := range s.Fields {
		v, present := data[f.Name]
		if !present {
			if f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: "field is required"})
				continue
			}
			doc[f.Name] = f.Default
			continue
		}
		val, msg := f.coerce(v)
		if msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
			continue
		}
		doc[f.Name] = val
	}

	errs = append(errs, s.unknownFields(data)...)

	if len(errs) > 0 {
		sortErrs(errs)
		return nil, errs
	}
	return doc, nil
}

// ValidatePartial checks an update payload: only supplied fields are
// validated, required-ness is not enforced, unknown fields are still
// rejected. Returns the patch to merge or every field error found.
func (s Schema) ValidatePartial(data map[string]any) (bson.M, []FieldError) {
	patch := bson.M{}
	var errs []FieldError

	for name, v := range data {
		f, ok := s.field(name)
		if !ok {
			errs = append(errs, FieldError{Field: name, Message: "unknown field"})
			continue
		}
		val, msg := f.coerce(v)
		if msg != "" {
			errs = append(errs, FieldError{Field: name, Message: msg})
			continue
		}
		patch[name] = val
	}

	if len(errs) > 0 {
		sortErrs(errs)
		return nil, errs
	}
	return patch, nil
}

func (s Schema) unknownFields(data map[string]any) []FieldError {
	var errs []FieldError
	for name := range data {
		if _, ok := s.field(name); !ok {
			errs = append(errs, FieldError{Field: name, Message: "unknown field"})
		}
	}
	return errs
}

func sortErrs(errs []FieldError) {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
}

// coerce checks v against the field type and returns the normalized value,
// or a non-empty message describing the violation. Explicit null is allowed
// for optional fields only.
func (f Field) coerce(v any) (any, string) {
	if v == nil {
		if f.Required {
			return nil, "field is required"
		}
		return nil, ""
	}

	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, "expected a string"
		}
		if f.Enum != nil && !contains(f.Enum, s) {
			return nil, fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", "))
		}
		return s, ""

	case TypeStringList:
		switch list := v.(type) {
		case []string:
			return list, ""
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, "expected a list of strings"
				}
				out = append(out, s)
			}
			return out, ""
		}
		return nil, "expected a list of strings"

	case TypeInt:
		switch n := v.(type) {
		case int:
			return int64(n), ""
		case int32:
			return int64(n), ""
		case int64:
			return n, ""
		case float64:
			// JSON numbers decode as float64; accept whole values only.
			if n == float64(int64(n)) {
				return int64(n), ""
			}
		}
		return nil, "expected an integer"

	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, "expected a boolean"
		}
		return b, ""
	}

	return nil, "unsupported field type"
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
