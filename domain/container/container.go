package container

import (
	"fmt"

	"github.com/tryfix/log"
	"github.com/wzwerch/sovrin/domain/services"
)

type Args struct {
	Label     string
	Port      int
	Transport string
	Store     string
	RedisAddr string
	LedgerURL string
	Verbose   bool
}

type Config struct {
	*Args
	Hostname string
	Endpoint string
	LogLevel string
}

// Container wires the agent's collaborators together. Sub-components only
// ever depend on the interfaces carried here.
type Container struct {
	Cfg       *Config
	Wallet    services.Wallet
	Ledger    services.Ledger
	Transport services.Transporter
	Catalog   services.ClaimCatalog
	OOB       services.OutOfBand
	ClaimDefs services.ClaimDefResolver
	IssuerKys services.IssuerKeyResolver
	OutChan   chan string
	Log       log.Logger
}

func (c *Container) Stop() error {
	if err := c.Transport.Stop(); err != nil {
		return fmt.Errorf(`transport shutdown failed - %v`, err)
	}

	if err := c.Ledger.Stop(); err != nil {
		return fmt.Errorf(`ledger gateway shutdown failed - %v`, err)
	}

	c.Log.Info(`graceful shutdown of agent completed successfully`)
	return nil
}
