// Package driving provides interfaces for the use cases exposed to
// front ends (primary/inbound ports): ingesting documents and
// answering claim queries.
package driving
