package utils

// Ptr returns a pointer to v. Optional request fields (temperature, token
// limits) are modelled as pointers so that an explicit zero stays
// distinguishable from "not set".
//
// Example:
//
//	cfg.Temperature = utils.Ptr(0.0)
func Ptr[T any](v T) *T {
	return &v
}
