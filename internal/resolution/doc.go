// Package resolution handles qualified module identifiers and the single
// process-wide module-resolution override used to recover from the vendor
// SDK's known dependency version-skew conflict.
package resolution
