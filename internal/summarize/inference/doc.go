// Package inference is the boundary between the summarization controller and
// a sequence-to-sequence generation capability.
//
// A Model exposes the four primitive operations (tokenize, count, generate,
// decode). The Adapter turns one chunk of text plus a context prefix into
// generated text under a fixed input budget and fixed beam settings, and
// releases transient resources after every call. TextModel builds a Model
// from a BPE tokenizer and a text Backend (ollama, openai, claude or echo).
// Holder owns the process-wide loaded Model with explicit load, reload and
// close hooks, and Instrument decorates any Generator with tracing, metrics
// and debug logging.
package inference
