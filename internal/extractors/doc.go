// Package extractors provides implementations of the Extractor interface
// for the document formats the pipeline can ingest. Each extractor knows
// how to turn one kind of file into an ordered list of pages.
//
// Extractors are registered with the Registry at startup.
package extractors
