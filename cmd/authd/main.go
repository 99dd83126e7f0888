// Command authd runs the account and session-token service.
//
//	@title			auth-service API
//	@version		1.0
//	@description	Account registration, login and token-gated profile access.
//	@BasePath		/api
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
