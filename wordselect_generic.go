//go:build !amd64

package bitrank

// No PDEP-equivalent is wired for non-amd64 architectures; wordSelect1Impl
// keeps its wordSelect1Binary default from wordselect.go.
