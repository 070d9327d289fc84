package toon

import (
	"reflect"
	"strings"
	"sync"
)

// fieldInfo holds metadata about a single struct field, parsed once from its
// `toon:"name,omitempty"` tag (the same shape and semantics as the
// teacher's `nt` tag). The `required` option has no teacher analog; it is
// this module's hook for Section 7's "missing required field" DecodingError.
type fieldInfo struct {
	name      string
	index     int
	tag       string
	omitEmpty bool
	required  bool
	ignore    bool
}

func (fi *fieldInfo) encodedName() string {
	if fi.tag != "" {
		return fi.tag
	}
	return fi.name
}

// structInfo holds cached metadata about a struct type.
type structInfo struct {
	fields []fieldInfo
}

// structInfoCache caches struct metadata to avoid repeated reflection work
// on every Marshal/Unmarshal call.
var structInfoCache sync.Map // map[reflect.Type]*structInfo

func getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := structInfoCache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{fields: make([]fieldInfo, 0, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fi := fieldInfo{name: field.Name, index: i}
		tag := field.Tag.Get("toon")
		if tag == "-" {
			fi.ignore = true
		} else if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				fi.tag = parts[0]
			}
			for _, opt := range parts[1:] {
				switch opt {
				case "omitempty":
					fi.omitEmpty = true
				case "required":
					fi.required = true
				}
			}
		}

		info.fields = append(info.fields, fi)
	}

	structInfoCache.Store(t, info)
	return info
}

// findField matches a decoded key to a struct field: by tag name first,
// then by field name case-insensitively, same two-pass rule as the teacher.
func findField(info *structInfo, key string) *fieldInfo {
	keyLower := strings.ToLower(key)

	for i := range info.fields {
		fi := &info.fields[i]
		if !fi.ignore && fi.tag == key {
			return fi
		}
	}
	for i := range info.fields {
		fi := &info.fields[i]
		if !fi.ignore && fi.tag == "" && strings.ToLower(fi.name) == keyLower {
			return fi
		}
	}
	return nil
}
