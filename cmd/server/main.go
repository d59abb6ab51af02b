/*
main.go - Application entry point

PURPOSE:
  Runs the attendance engine command line. `serve` starts the HTTP server;
  the other commands work directly against the SQLite database.

COMMANDS:
  serve              Start the HTTP API (graceful shutdown on SIGINT/SIGTERM)
  resolve USER       Print a resolved month as JSON
  holidays import    Load a YAML/JSON holiday calendar into the database
  holidays list      Print stored holidays
  users add ID NAME  Add a user to the directory

CONFIGURATION:
  Flags override environment variables, which override an optional .env
  file. See config/config.go for the variable list.

EXAMPLES:
  # Run with file database
  ./server serve --db ./data/attendance.db

  # Run with in-memory database
  ./server serve --db :memory:

  # Import the company calendar, then check a month
  ./server holidays import holidays.yaml
  ./server resolve alice --month 3 --year 2025

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment variables
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
