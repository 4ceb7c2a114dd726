package model

import (
	"reflect"
	"strings"
	"sync"
)

var attributeCache sync.Map // reflect.Type -> []string

// AttributesOf returns the JSON attribute names declared by T, following
// pointers and flattening embedded structs. Fields tagged `json:"-"` and
// unexported fields are skipped. Non-struct types declare no attributes.
func AttributesOf[T any]() []string {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	if cached, ok := attributeCache.Load(rt); ok {
		return append([]string(nil), cached.([]string)...)
	}

	var names []string
	if rt.Kind() == reflect.Struct {
		names = collectAttributes(rt, nil)
	}
	attributeCache.Store(rt, names)
	return append([]string(nil), names...)
}

func collectAttributes(rt reflect.Type, names []string) []string {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if field.Anonymous && name == "" {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				names = collectAttributes(ft, names)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		names = append(names, name)
	}
	return names
}
