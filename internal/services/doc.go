// Package services implements the business logic layer of the prediction
// service. It provides a clean separation between HTTP handlers and the
// model, schema and registry packages, ensuring that business rules are
// centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//  1. Interface-driven design for testability
//  2. Context propagation for cancellation and tracing
//  3. Dependency injection for loose coupling
//  4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//   - PredictionService: Maps requests to feature vectors and scores them
//   - HealthService: Provides liveness and readiness checks
//
// # Error Handling
//
// Services return domain-specific errors that handlers can transform:
//
//   - Validation errors for invalid input
//   - Feature mapping errors carrying a machine-readable code
//   - Internal errors for unexpected failures
package services
