// Package pagination resolves untrusted page parameters into a bounded
// PageRequest and projects query results into transport metadata.
package pagination
