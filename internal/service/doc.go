// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, the staging
// and conversion infrastructure, and the processing engine to fulfill
// application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - Define application-specific operations available to the delivery mechanisms
//   - ProcessService drives one content-processing request end to end
//
// 2. Use Case Implementations:
//   - Coordinate staging, conversion policy, engine dispatch, progress
//     fan-out, and history recording for each request
//   - Guarantee staged artifacts are released on every exit path
//
// 3. Dependency Management:
//   - Services receive dependencies through constructor injection
//   - Core dependencies include the engine, artifact store, converter,
//     history store, and progress broadcaster
//
// 4. Error Handling:
//   - Translate engine and infrastructure errors to application-level errors
//   - Provide meaningful error context for API responses
//
// The service layer depends on domain entities and component interfaces,
// but never on specific infrastructure implementations, maintaining the
// Dependency Inversion Principle of clean architecture.
package service
