package form

import (
	"reflect"
	"strings"
)

// Normalize prepares submitted values for the services, in place:
//   - fields tagged `normalize:"date"` become yyyy-mm-ddT00:00:00Z
//   - blank optional strings (*string) become nil, so they are omitted
//
// Nested structs and slices are copied before being rewritten so values
// shared with the caller are never mutated.
func Normalize(ptr any) {
	walk(reflect.ValueOf(ptr), ToISODate, true)
}

// Prefill converts the date fields of a record loaded for editing back into
// yyyy-mm-dd, the format the form inputs use.
func Prefill(ptr any) {
	walk(reflect.ValueOf(ptr), ToInputDate, false)
}

func walk(v reflect.Value, date func(string) string, dropBlank bool) {
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	walkStruct(v.Elem(), date, dropBlank)
}

func walkStruct(v reflect.Value, date func(string) string, dropBlank bool) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		f := v.Field(i)
		isDate := sf.Tag.Get("normalize") == "date"

		switch f.Kind() {
		case reflect.String:
			if isDate {
				f.SetString(date(f.String()))
			}
		case reflect.Pointer:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			switch elem.Kind() {
			case reflect.String:
				s := elem.String()
				if dropBlank && strings.TrimSpace(s) == "" {
					f.Set(reflect.Zero(f.Type()))
					continue
				}
				if isDate {
					s = date(s)
				}
				if s != elem.String() {
					np := reflect.New(elem.Type())
					np.Elem().SetString(s)
					f.Set(np)
				}
			case reflect.Struct:
				np := reflect.New(elem.Type())
				np.Elem().Set(elem)
				walkStruct(np.Elem(), date, dropBlank)
				f.Set(np)
			}
		case reflect.Struct:
			walkStruct(f, date, dropBlank)
		case reflect.Slice:
			if f.IsNil() || f.Type().Elem().Kind() != reflect.Struct {
				continue
			}
			cp := reflect.MakeSlice(f.Type(), f.Len(), f.Len())
			reflect.Copy(cp, f)
			for j := 0; j < cp.Len(); j++ {
				walkStruct(cp.Index(j), date, dropBlank)
			}
			f.Set(cp)
		}
	}
}
