// Package application provides application initialization and dependency wiring.
// It loads the device catalog and builds the impact calculator, handlers,
// routers and HTTP server, keeping the main package focused on CLI parsing
// and orchestration.
package application
