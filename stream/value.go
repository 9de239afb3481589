package stream

import "reflect"

// topLevelCount returns v's element count if it's a list or map-shaped
// value, 0 otherwise — the nitems hint buffer.EncBuffer.Prepare uses to
// size its initial allocation.
func topLevelCount(v any) int {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return 0
		}

		return rv.Len()
	case reflect.Map:
		return rv.Len()
	default:
		return 0
	}
}
