package reflectutil

import (
	"reflect"
	"regexp"
	"strings"
)

var matchFirstCap = regexp.MustCompile("(.)([A-Z]+[a-z]+)")
var matchAllCap = regexp.MustCompile("([a-z0-9])([A-Z]+)")

func ToSnakeCase(str string) string {
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}

// PartialEqual reports whether every non-zero field of a equals the
// corresponding field of b. Both parameters must be pointers to structs.
func PartialEqual[T any](a T, b T) bool {
	va := reflect.ValueOf(a).Elem()
	vb := reflect.ValueOf(b).Elem()

	for i := 0; i < va.NumField(); i++ {
		fieldA := va.Field(i)
		fieldB := vb.Field(i)

		if fieldA.IsZero() {
			continue
		}
		if fieldA.Interface() != fieldB.Interface() {
			return false
		}
	}
	return true
}
