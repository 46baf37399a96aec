// Package kernel provides the value objects shared by the order intake domain.
//
// The package includes:
//   - Money: an exact decimal amount backed by github.com/shopspring/decimal
//   - Email: the normalized natural key customers are resolved on
//
// Both are immutable and must be created through their constructors; the zero
// value fails Validate.
package kernel
