package serialize

// Dictify adapts a function returning model text into one returning the
// decoded mapping.
func Dictify(fn func() string, opts ...Option) func() Result[map[string]any] {
	return func() Result[map[string]any] {
		return TextToStructured(fn(), opts...)
	}
}

// Stringify adapts a function returning a mapping into one returning its
// indented JSON text, or the "Error: ..." string on failure.
func Stringify(fn func() map[string]any) func() string {
	return func() string {
		return Text(StructuredToText(fn()))
	}
}
