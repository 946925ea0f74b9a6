// Command templatespan resolves notification placeholder spans locally.
//
//	templatespan parse --text "Alice joined Chess" --template "{{ userId: u1 }} joined {{ communityId: c1 }}"
//	templatespan highlight --format markdown --text ... --template ...
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
