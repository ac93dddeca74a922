// Package application provides application initialization and dependency wiring.
// It loads the packaging catalog, builds the planner, handlers and router, and
// configures the HTTP server, keeping the main package focused on CLI parsing
// and orchestration.
package application
