// Package engine provides interfaces and types for interacting with the
// external content-processing engine. It abstracts the details of AI/LLM API
// integration (Gemini), allowing the application to dispatch chat, URL, and
// document inputs without coupling to specific external services.
package engine
