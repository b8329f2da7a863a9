// Package convert wraps the external document-to-PDF conversion capability.
//
// Conversion is strictly best-effort: when the capability is unavailable or
// a conversion fails, callers fall back to the original document rather than
// failing the request. The engine downstream may still reject an unsupported
// format, which is an engine outcome, not a conversion error.
package convert
