package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	log "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/wealthdash/wealthdash/infra/initializer"
	"github.com/wealthdash/wealthdash/pkg/app"
	"github.com/wealthdash/wealthdash/pkg/config"
	accountsvc "github.com/wealthdash/wealthdash/pkg/service/account"
)

const usage = `Usage: wealthdash-cli <command> [arguments]
Commands:
  networth <user_id>         Print the user's net worth
  verify <user_id>           Compare stored balances with the transaction history
  resync <user_id> [--yes]   Write the recomputed balances back`

var (
	errUsage   = errors.New("invalid usage")
	errAborted = errors.New("aborted")

	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"})
	driftStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"})
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		log.Fatal("failed to initialize dependencies", "error", err)
	}
	a, err := app.New(deps)
	if err != nil {
		initializer.CloseQuietly(deps)
		log.Fatal("failed to build application", "error", err)
	}

	cli := &CLI{
		Accounts:    a.AccountService,
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	err = cli.Run(context.Background(), os.Args[1:])
	initializer.CloseQuietly(deps)
	if errors.Is(err, errUsage) {
		fmt.Println(usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// CLI runs the maintenance commands against the account service.
type CLI struct {
	Accounts *accountsvc.Service
	In       io.Reader
	Out      io.Writer
	// Interactive asks before resync writes balances.
	Interactive bool
}

// Run executes one command.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	userID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("%w: user_id must be a UUID", errUsage)
	}

	switch args[0] {
	case "networth":
		sum, err := c.Accounts.NetWorth(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "%s %s across %d accounts\n",
			headerStyle.Render("Net worth:"), sum.NetWorth.StringFixed(2), sum.AccountCount)
		return nil
	case "verify":
		report, err := c.Accounts.Verify(ctx, userID)
		if err != nil {
			return err
		}
		c.printReport(report)
		return nil
	case "resync":
		yes := len(args) > 2 && args[2] == "--yes"
		if !yes {
			report, err := c.Accounts.Verify(ctx, userID)
			if err != nil {
				return err
			}
			c.printReport(report)
			if !drifted(report) {
				return nil
			}
			if !c.Interactive {
				return fmt.Errorf("%w: pass --yes to resync without a terminal", errAborted)
			}
			if !c.confirm("Write the expected balances?") {
				return errAborted
			}
		}
		fixed, err := c.Accounts.Resync(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "%s %d account(s) corrected\n", headerStyle.Render("Resync:"), len(fixed))
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (c *CLI) printReport(report []accountsvc.Drift) {
	fmt.Fprintln(c.Out, headerStyle.Render(fmt.Sprintf("%-36s  %-20s %14s %14s", "ACCOUNT", "NAME", "STORED", "EXPECTED")))
	for _, d := range report {
		line := fmt.Sprintf("%-36s  %-20s %14s %14s", d.AccountID, d.Name, d.Stored.StringFixed(2), d.Expected.StringFixed(2))
		if d.InSync() {
			fmt.Fprintln(c.Out, okStyle.Render(line))
		} else {
			fmt.Fprintln(c.Out, driftStyle.Render(line+"  drift "+d.Difference().StringFixed(2)))
		}
	}
}

func (c *CLI) confirm(prompt string) bool {
	fmt.Fprintf(c.Out, "%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(c.In).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func drifted(report []accountsvc.Drift) bool {
	for _, d := range report {
		if !d.InSync() {
			return true
		}
	}
	return false
}
