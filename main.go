// Package main is the entry point for the educast application.
package main

import (
	"github.com/educast-cli/educast/cmd"
	"github.com/educast-cli/educast/config"
	"github.com/educast-cli/educast/log"
	"github.com/educast-cli/educast/tracking"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Replay view/like registrations that failed while offline.
	tracking.ReconcileFailures()

	cmd.Execute()
}
