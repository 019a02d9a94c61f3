//go:build osaldebug

package osal

const debugAssertions = true
