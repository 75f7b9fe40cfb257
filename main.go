package main

import (
	"time"

	"github.com/tryfix/log"
	"github.com/wzwerch/sovrin/agent"
	"github.com/wzwerch/sovrin/cli"
)

// prodBudget bounds the work done per driver tick.
const (
	prodBudget   = 16
	prodInterval = 20 * time.Millisecond
)

func main() {
	args := cli.ParseArgs()
	c := initContainer(setConfigs(args))

	agnt, err := agent.New(c)
	if err != nil {
		log.Fatal(err)
	}

	if err = agnt.Start(); err != nil {
		log.Fatal(err)
	}

	go drive(agnt)
	defer shutdown(agnt)
	cli.Init(c, agnt)
}

// drive is the external prod loop: the agent itself never blocks, it only
// performs bounded work per tick.
func drive(agnt *agent.Agent) {
	for range time.Tick(prodInterval) {
		agnt.Prod(prodBudget)
	}
}

func shutdown(agnt *agent.Agent) {
	if err := agnt.Stop(); err != nil {
		log.Error(err)
	}
}
