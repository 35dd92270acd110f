// Package summarize implements recursive map-reduce summarization of
// documents longer than the model's input window.
//
// Each pass first checks the wall-clock and depth guards. Text that fits the
// window is summarized in one generation call at the final target length.
// Longer text is split into sentences, packed into overlapping chunks, each
// chunk is summarized in document order at a short intermediate length, and
// the space-joined partial summaries are summarized again one level deeper.
// The outcome is always a Result value with an explicit Kind.
package summarize
