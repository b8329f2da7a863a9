// Package gemini provides an implementation of the engine.Engine interface
// that uses Google's Gemini API for processing chat, URL, and document inputs.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's orchestration logic to Google's external
// Gemini AI service. It translates between the application's input
// descriptors and the Gemini API without exposing the details of the
// external service to the core application.
//
// Key components:
//
// 1. GeminiEngine:
//   - Implements the engine.Engine interface
//   - Resolves chat prompts, remote URLs, and staged document files into
//     model content
//   - Reports stage milestones through the caller's progress hook
//
// 2. Two-Pass Processing:
//   - Optionally runs an indexing pass that outlines the input before the
//     synthesis pass consumes it
//   - Streams the synthesis response so progress can be reported while the
//     model is still producing output
//
// 3. Error Handling:
//   - Implements retry logic with exponential backoff for transient errors
//   - Categorizes and translates API errors to application-specific errors
//   - Reports input-level failures (unreachable URL, refused content) as
//     structured engine results rather than Go errors
//
// The package depends on Google's google.golang.org/genai client library
// for communicating with the Gemini API, and handles authentication,
// request formatting, and response processing according to Google's
// API specifications.
package gemini
