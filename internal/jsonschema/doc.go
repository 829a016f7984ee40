// Package jsonschema derives the parameter schemas that tools advertise to a
// language model. A Go struct type stands in for a function signature: each
// exported field is one parameter, its Go kind maps onto one of six JSON
// Schema primitive types, and struct tags supply descriptions, enums and
// default values.
//
// The main entry point is [GenerateJSONSchema]; [KindOf] exposes the kind
// lookup on its own.
package jsonschema
