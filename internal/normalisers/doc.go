// Package normalisers provides implementations of the Normaliser
// interface for the document formats the pipeline ingests. Each
// normaliser knows how to extract text content from a specific MIME
// type; extraction is best-effort and a failure affects only the
// file at hand, never the batch.
//
// Normalisers are registered with the NormaliserRegistry at startup.
package normalisers
