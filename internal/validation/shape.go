package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
)

// TypeValidator turns a value of unknown shape into a T or the list of
// fields that did not fit.
type TypeValidator[T any] interface {
	Validate(input any) result.Result[T, domain.FieldErrors]
}

// Shape is the reflection-driven TypeValidator. It walks decoded JSON
// (map[string]any, []any, string, float64, bool, nil) against T's struct
// fields, then applies T's `validate` tags. Fields tagged `coerce:"number"`
// also accept numeric strings.
type Shape[T any] struct {
	cat    *Catalog
	strict bool
}

func NewShape[T any](cat *Catalog) *Shape[T] {
	return &Shape[T]{cat: cat}
}

// Strict returns a copy that rejects keys T does not declare.
func (s *Shape[T]) Strict() *Shape[T] {
	return &Shape[T]{cat: s.cat, strict: true}
}

var timeType = reflect.TypeOf(time.Time{})

func (s *Shape[T]) Validate(input any) result.Result[T, domain.FieldErrors] {
	var out T

	switch in := input.(type) {
	case T:
		out = in
		return s.rules(&out, nil)
	case *T:
		if in != nil {
			out = *in
			return s.rules(&out, nil)
		}
		input = nil
	case []byte:
		var raw any
		if err := json.Unmarshal(in, &raw); err != nil {
			return result.Err[T](domain.FieldErrors{s.cat.FieldError("body", MsgBody)})
		}
		input = raw
	case json.RawMessage:
		var raw any
		if err := json.Unmarshal(in, &raw); err != nil {
			return result.Err[T](domain.FieldErrors{s.cat.FieldError("body", MsgBody)})
		}
		input = raw
	case nil, map[string]any, []any, string, float64, bool, json.Number:
	default:
		// Any other Go value goes through its JSON form so the walk sees
		// the same shapes a request body would produce.
		b, err := json.Marshal(in)
		if err != nil {
			return result.Err[T](domain.FieldErrors{s.cat.FieldError("body", MsgUnsupported)})
		}
		var raw any
		_ = json.Unmarshal(b, &raw)
		input = raw
	}

	w := &walker{cat: s.cat, strict: s.strict, bad: map[string]bool{}}
	w.decode("", input, reflect.ValueOf(&out).Elem(), false)
	if len(w.errs) > 0 {
		// Tag rules still run on the fields that decoded, so one call
		// reports every problem at once.
		if r := s.rules(&out, w.bad); r.IsErr() {
			return result.Err[T](append(w.errs, r.Error()...))
		}
		return result.Err[T](w.errs)
	}
	return s.rules(&out, nil)
}

func (s *Shape[T]) rules(v *T, skip map[string]bool) result.Result[T, domain.FieldErrors] {
	if reflect.TypeOf(v).Elem().Kind() != reflect.Struct {
		return result.Ok[T, domain.FieldErrors](*v)
	}
	if errs := s.cat.structErrors(v, skip); len(errs) > 0 {
		// Missing fields report "required" too; drop the ones whose shape
		// already failed so each field appears once.
		errs = dropPrefixed(errs, skip)
		if len(errs) > 0 {
			return result.Err[T](errs)
		}
	}
	return result.Ok[T, domain.FieldErrors](*v)
}

func dropPrefixed(errs domain.FieldErrors, bad map[string]bool) domain.FieldErrors {
	if len(bad) == 0 {
		return errs
	}
	out := errs[:0]
next:
	for _, fe := range errs {
		for p := range bad {
			if p == "" || fe.Field == p || strings.HasPrefix(fe.Field, p+".") {
				continue next
			}
		}
		out = append(out, fe)
	}
	return out
}

type walker struct {
	cat    *Catalog
	strict bool
	errs   domain.FieldErrors
	bad    map[string]bool
}

func (w *walker) fail(path, key string) {
	field := path
	if field == "" {
		field = "body"
	}
	w.errs = append(w.errs, w.cat.FieldError(field, key))
	w.bad[path] = true
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func (w *walker) decode(path string, raw any, v reflect.Value, coerce bool) {
	if raw == nil {
		switch v.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			v.Set(reflect.Zero(v.Type()))
		default:
			w.fail(path, MsgNull)
		}
		return
	}

	if v.Type() == timeType {
		s, ok := raw.(string)
		if !ok {
			w.fail(path, MsgTime)
			return
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			w.fail(path, MsgTime)
			return
		}
		v.Set(reflect.ValueOf(t))
		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		p := reflect.New(v.Type().Elem())
		w.decode(path, raw, p.Elem(), coerce)
		v.Set(p)

	case reflect.Struct:
		m, ok := raw.(map[string]any)
		if !ok {
			w.fail(path, MsgObject)
			return
		}
		w.decodeStruct(path, m, v)

	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			w.fail(path, MsgString)
			return
		}
		v.SetString(s)

	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			w.fail(path, MsgBoolean)
			return
		}
		v.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := number(raw, coerce)
		if !ok {
			w.fail(path, MsgNumber)
			return
		}
		if n != math.Trunc(n) || v.OverflowInt(int64(n)) {
			w.fail(path, MsgInteger)
			return
		}
		v.SetInt(int64(n))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := number(raw, coerce)
		if !ok {
			w.fail(path, MsgNumber)
			return
		}
		if n < 0 || n != math.Trunc(n) || v.OverflowUint(uint64(n)) {
			w.fail(path, MsgInteger)
			return
		}
		v.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		n, ok := number(raw, coerce)
		if !ok {
			w.fail(path, MsgNumber)
			return
		}
		v.SetFloat(n)

	case reflect.Slice:
		arr, ok := raw.([]any)
		if !ok {
			w.fail(path, MsgArray)
			return
		}
		s := reflect.MakeSlice(v.Type(), len(arr), len(arr))
		for i, item := range arr {
			w.decode(join(path, strconv.Itoa(i)), item, s.Index(i), coerce)
		}
		v.Set(s)

	case reflect.Map:
		m, ok := raw.(map[string]any)
		if !ok || v.Type().Key().Kind() != reflect.String {
			w.fail(path, MsgObject)
			return
		}
		out := reflect.MakeMapWithSize(v.Type(), len(m))
		for _, k := range sortedKeys(m) {
			elem := reflect.New(v.Type().Elem()).Elem()
			w.decode(join(path, k), m[k], elem, coerce)
			out.SetMapIndex(reflect.ValueOf(k).Convert(v.Type().Key()), elem)
		}
		v.Set(out)

	case reflect.Interface:
		v.Set(reflect.ValueOf(raw))

	default:
		w.fail(path, MsgUnsupported)
	}
}

func (w *walker) decodeStruct(path string, m map[string]any, v reflect.Value) {
	t := v.Type()
	known := make(map[string]bool, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonName(f)
		if name == "" {
			continue
		}
		known[name] = true

		raw, present := m[name]
		if !present {
			continue
		}
		w.decode(join(path, name), raw, v.Field(i), f.Tag.Get("coerce") == "number")
	}

	if !w.strict {
		return
	}
	for _, k := range sortedKeys(m) {
		if !known[k] {
			w.fail(join(path, k), MsgUnknownField)
		}
	}
}

func number(raw any, coerce bool) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		if !coerce {
			return 0, false
		}
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
