// Package serialize converts model output between its textual form and a
// structured key/value mapping.
//
// Every helper follows an "always return a value" contract: failures are
// reported through a [Result] carrying a [*FormatError] instead of a panic,
// so callers only inspect whether the result holds an error. The two error
// variants keep distinct wording, "Invalid string format" for text that
// cannot be decoded and "Invalid dictionary format" for values that cannot
// be encoded.
package serialize
