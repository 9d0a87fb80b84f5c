package main

import (
	"flag"
	"os"

	"github.com/semi-dlc/flowt-bb/agentservice"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override FREIGHT_AGENT_BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	if err := agentservice.Run(*buildTarget); err != nil {
		os.Exit(1)
	}
}
