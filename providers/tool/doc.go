// Package tool describes the functions a language model may ask to call.
//
// A [Descriptor] carries what the model sees: a name, a description and an
// object schema with one property per parameter. Descriptors come from two
// places. [Derive] and [NewFunction] read them off a Go struct type standing
// in for the parameter list; [Declare] builds one explicitly from [Param]
// values when no such type exists.
//
// Tools built with [NewFunction] are [Callable]: the backend can dispatch a
// model's function call to them and send the result back. Plain descriptors
// are declaration-only and leave the function call to the caller. [Catalog]
// is the name-indexed registry the backend uses for dispatch.
package tool
