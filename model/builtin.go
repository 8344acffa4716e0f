package model

// builtinKeywords maps a Smithy built-in type keyword (spec §3.1) to the
// primitive Kind it denotes.
var builtinKeywords = map[string]Kind{
	"blob":       KindBlob,
	"boolean":    KindBoolean,
	"string":     KindString,
	"byte":       KindByte,
	"short":      KindShort,
	"integer":    KindInteger,
	"long":       KindLong,
	"float":      KindFloat,
	"double":     KindDouble,
	"bigInteger": KindBigInteger,
	"bigDecimal": KindBigDecimal,
	"timestamp":  KindTimestamp,
	"document":   KindDocument,
	"unitType":   KindUnit,
}

// KindForBuiltinKeyword returns the primitive Kind for one of the bare
// built-in type keywords ("blob", "boolean", ...), and whether name was
// recognized.
func KindForBuiltinKeyword(name string) (Kind, bool) {
	k, ok := builtinKeywords[name]
	return k, ok
}
