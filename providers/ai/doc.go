// Package ai is the boundary between the request adapter and a concrete
// model backend.
//
// [Client] sends one prompt with an optional [RequestConfig] and opens
// multi-turn [ChatSession]s. Backends translate the config into their own
// SDK types; the adapter never sees vendor types. A nil *RequestConfig
// means "use the backend defaults". The model identifier is passed next to
// the config, not inside it.
package ai
