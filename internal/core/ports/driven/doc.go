// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor / ExtractorRegistry: Turn a source file into ordered pages
//   - PostProcessor / PostProcessorPipeline: Split pages into identified chunks
//   - EmbeddingService: Maps text to a fixed-length vector
//   - VectorIndex: Persistent store of index entries with similarity search
//   - LLMService: Generates the answer text from a prompt
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: User-editable prompt templates. Without it the built-in
//     answer template is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or post-processor package
package driven
