package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wzwerch/sovrin/domain/container"
	"github.com/wzwerch/sovrin/domain/services"
)

type runner struct {
	cfg     *container.Config
	reader  *bufio.Reader
	agent   services.Agent
	recChan chan string
}

// chanObserver forwards agent notifications to the runner's output channel.
type chanObserver struct {
	out chan string
}

func (o *chanObserver) OnNotification(text string) {
	o.out <- text
}

func ParseArgs() *container.Args {
	label := flag.String(`label`, ``, `agent's name`)
	port := flag.Int(`port`, 0, `agent's port`)
	transport := flag.String(`transport`, `zmq`, `transport endpoint (zmq|http)`)
	store := flag.String(`store`, `memory`, `wallet store backend (memory|redis)`)
	redisAddr := flag.String(`redis`, `127.0.0.1:6379`, `redis address for the redis store backend`)
	ledgerURL := flag.String(`ledger`, ``, `ledger node endpoint`)
	verbose := flag.Bool(`v`, false, `verbose logs`)
	flag.Parse()

	return &container.Args{
		Label:     *label,
		Port:      *port,
		Transport: *transport,
		Store:     *store,
		RedisAddr: *redisAddr,
		LedgerURL: *ledgerURL,
		Verbose:   *verbose,
	}
}

func Init(c *container.Container, agnt services.Agent) {
	fmt.Printf("-> Agent initialized with following attributes: \n\t- Name: %s\n\t- Endpoint: %s\n", c.Cfg.Label, c.Cfg.Endpoint)

	r := runner{cfg: c.Cfg, reader: bufio.NewReader(os.Stdin), agent: agnt, recChan: c.OutChan}
	agnt.RegisterObserver(&chanObserver{out: r.recChan})
	go r.listen()
	r.basicCommands()
}

func (r *runner) listen() {
	for text := range r.recChan {
		fmt.Printf("\n-> %s\n", text)
	}
}

func (r *runner) basicCommands() {
basicCmds:
	fmt.Printf("\n-> Enter the corresponding number of a command to proceed;\n\t[1] Generate invitation\n\t[2] Accept invitation\n\t[3] Request a claim\n\t[4] Show links\n\t[5] Exit\n   Command: ")

	cmd, err := r.reader.ReadString('\n')
	if err != nil {
		fmt.Println("   Error: reading command number failed, please try again")
		goto basicCmds
	}

	switch strings.TrimSpace(cmd) {
	case "1":
		r.generateInvitation()
	case "2":
		r.acceptInvitation()
	case "3":
		r.requestClaim()
	case "4":
		r.showLinks()
	case "5":
		// returning unwinds to main so its deferred shutdown runs
		fmt.Println(`-> Program exited`)
		return
	default:
		fmt.Println("   Error: invalid command number, please try again")
		goto basicCmds
	}

	r.basicCommands()
}

func (r *runner) generateInvitation() {
	peer := r.readLine(`Peer name: `)
	url, err := r.agent.Invite(peer)
	if err != nil {
		fmt.Printf("-> Error: generating invitation failed (%v)\n", err)
		return
	}

	fmt.Printf("-> Invitation URL: %s\n", url)
}

func (r *runner) acceptInvitation() {
	url := r.readLine(`Invitation URL: `)
	inviter, err := r.agent.AcceptInvitation(url)
	if err != nil {
		fmt.Printf("-> Error: accepting invitation failed (%v)\n", err)
		return
	}

	fmt.Printf("-> Invitation of %s accepted\n", inviter)
}

func (r *runner) requestClaim() {
	peer := r.readLine(`Peer name: `)
	claim := r.readLine(`Claim name: `)
	if err := r.agent.RequestClaim(peer, claim); err != nil {
		fmt.Printf("-> Error: requesting claim failed (%v)\n", err)
	}
}

func (r *runner) showLinks() {
	links, err := r.agent.Links()
	if err != nil {
		fmt.Printf("-> Error: listing links failed (%v)\n", err)
		return
	}

	for _, l := range links {
		fmt.Printf("-> %s [%s]\n", l.Name, l.Status)
		for _, ac := range l.AvailableClaims {
			fmt.Printf("\t- available: %s (v%s)\n", ac.ClaimDefKey.Name, ac.ClaimDefKey.Version)
		}
		for _, rc := range l.ReceivedClaims {
			fmt.Printf("\t- received: %s (v%s) on %s\n", rc.Key.Name, rc.Key.Version, rc.DateOfIssue.Format(`2006-01-02 15:04:05`))
		}
	}
}

func (r *runner) readLine(prompt string) string {
	fmt.Printf("\t%s", prompt)
	text, err := r.reader.ReadString('\n')
	if err != nil {
		return ``
	}
	return strings.TrimSpace(text)
}
