package cmsgpack

import (
	"reflect"

	"github.com/svenboertjens/cmsgpack-sub000/exttype"
)

// ExtTypesEncode builds an encode-side ext-type table from a
// { Go type -> EncodeFunc } mapping, for use with WithEncodeExtTypes.
func ExtTypesEncode(mapping map[reflect.Type]exttype.EncodeFunc) *exttype.EncodeTable {
	return exttype.NewEncodeTable(mapping)
}

// ExtTypesDecode builds a decode-side ext-type table from a
// { ext id -> DecodeFunc } mapping, for use with WithDecodeExtTypes.
// argKind selects whether registered functions receive an owned copy of
// the ext payload (exttype.ArgBytes, the default) or a view that aliases
// the decode buffer (exttype.ArgView) and is only valid for the duration
// of the call.
func ExtTypesDecode(mapping map[int8]exttype.DecodeFunc, argKind ...exttype.ArgKind) *exttype.DecodeTable {
	kind := exttype.ArgBytes
	if len(argKind) > 0 {
		kind = argKind[0]
	}

	return exttype.NewDecodeTable(mapping, kind)
}
