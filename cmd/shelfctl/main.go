// Command shelfctl runs maintenance tasks against a shelfmate store:
// applying migrations, seeding demo data, and resetting passwords.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
