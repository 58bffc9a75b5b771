// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): normalisation, chunking, embeddings,
// the reasoning service, the vector store, and the document catalog.
package driven
