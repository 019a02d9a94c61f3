//go:build !osaldebug

package osal

// debugAssertions enables the debug-only abort paths, build with the
// osaldebug tag to enable them.
const debugAssertions = false
