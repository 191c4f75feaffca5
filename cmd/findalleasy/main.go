// Package main provides the findalleasy command line tool.
//
// It runs the same search pipeline as the HTTP server, which is handy for
// checking prices and FX behaviour without starting the server.
//
// Usage:
//
//	findalleasy search <query> [--region DE] [--lang en]
//	findalleasy rates [--base USD]
package main

func main() {
	Execute()
}
