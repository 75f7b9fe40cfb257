package main

import (
	"strconv"

	"github.com/wzwerch/sovrin/catalog"
	"github.com/wzwerch/sovrin/crypto"
	"github.com/wzwerch/sovrin/domain/container"
	"github.com/wzwerch/sovrin/domain/messages"
	"github.com/wzwerch/sovrin/domain/services"
	"github.com/wzwerch/sovrin/invitation"
	"github.com/wzwerch/sovrin/ledger"
	"github.com/wzwerch/sovrin/log"
	"github.com/wzwerch/sovrin/transport"
	"github.com/wzwerch/sovrin/wallet"
)

func setConfigs(args *container.Args) *container.Config {
	hostname := `tcp://127.0.0.1:` + strconv.Itoa(args.Port)
	if args.Transport == `http` {
		hostname = `http://127.0.0.1:` + strconv.Itoa(args.Port) + `/agent`
	}

	return &container.Config{
		Args:     args,
		Hostname: hostname,
		Endpoint: hostname,
		LogLevel: `DEBUG`,
	}
}

func initContainer(cfg *container.Config) *container.Container {
	logger := log.NewLogger(cfg.Verbose)

	var tr services.Transporter
	var err error
	switch cfg.Transport {
	case `http`:
		tr = transport.NewHTTP(cfg.Label, cfg.Port, logger)
	default:
		tr, err = transport.NewZmq(cfg.Label, cfg.Endpoint, logger)
		if err != nil {
			logger.Fatal(err)
		}
	}

	var store services.Store
	switch cfg.Store {
	case `redis`:
		store, err = wallet.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			logger.Fatal(err)
		}
	default:
		store = wallet.NewMemoryStore()
	}

	wlt, err := wallet.New(crypto.NewKeyManager(), store)
	if err != nil {
		logger.Fatal(err)
	}

	return &container.Container{
		Cfg:       cfg,
		Wallet:    wlt,
		Ledger:    ledger.NewGateway(tr, cfg.LedgerURL, logger),
		Transport: tr,
		Catalog:   demoCatalog(),
		OOB:       invitation.NewOOBService(cfg.Endpoint),
		OutChan:   make(chan string),
		Log:       logger,
	}
}

// demoCatalog is the fixed set of claims this agent can issue until a
// real issuing backend is attached.
func demoCatalog() services.ClaimCatalog {
	return catalog.NewStatic(
		[]messages.AvailableClaim{
			{Name: `Transcript`, Version: `1.2`, ClaimDefSeqNo: 12, Definition: []byte(`{"attr_names":["student_name","degree","status"]}`)},
		},
		[]messages.Claim{
			{Name: `Transcript`, Version: `1.2`, ClaimDefSeqNo: 12, Values: map[string]any{
				`student_name`: `unset`,
				`degree`:       `unset`,
				`status`:       `graduated`,
			}},
		},
	)
}
