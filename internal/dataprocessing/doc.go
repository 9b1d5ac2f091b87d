// Package dataprocessing implements the retail analytics engine: decoding of
// raw tabular sources into field rows, schema validation per dataset kind,
// and aggregation of the three validated datasets into a BusinessSummary.
//
// The pipeline is strictly Decoder -> SchemaValidator -> Summarizer, with the
// SentimentScorer invoked internally by the Summarizer. No component holds
// state across calls; each invocation is a pure function of its inputs, so
// the three dataset pipelines can be decoded concurrently by a caller and
// joined only at the Summarizer input boundary.
//
// Error policy: decoding fails only on structurally unreadable input (a
// PARSING AppError); schema problems are represented as ValidationResult
// data and never raised; the Summarizer and SentimentScorer are total and
// degrade to zero values on empty input.
package dataprocessing
