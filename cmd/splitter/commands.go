package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/splitter-contract/deploy"
	"github.com/nspcc-dev/splitter-contract/rpc/splitter"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "Account address or LE script hash (signing account if not set)",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "Amount of GAS, e.g. 1.5",
	}
)

var (
	deployCommand = cli.Command{
		Name:  "deploy",
		Usage: "Deploy the contract owned by the signing account",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "nef",
				Usage: "Path to the compiled contract",
				Value: "contracts/splitter/contract.nef",
			},
			cli.StringFlag{
				Name:  "manifest",
				Usage: "Path to the contract manifest",
				Value: "contracts/splitter/manifest.json",
			},
			cli.BoolFlag{
				Name:  "paused",
				Usage: "Start the contract paused",
			},
		},
		Action: deployAction,
	}
	splitCommand = cli.Command{
		Name:  "split",
		Usage: "Transfer GAS to the contract splitting it between two beneficiaries",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "beneficiary1, b1", Usage: "First beneficiary"},
			cli.StringFlag{Name: "beneficiary2, b2", Usage: "Second beneficiary"},
			amountFlag,
		},
		Action: splitAction,
	}
	depositCommand = cli.Command{
		Name:   "deposit",
		Usage:  "Transfer GAS to the contract crediting the signing account",
		Flags:  []cli.Flag{amountFlag},
		Action: depositAction,
	}
	withdrawCommand = cli.Command{
		Name:   "withdraw",
		Usage:  "Withdraw the whole credited balance of the signing account",
		Action: withdrawAction,
	}
	pauseCommand = cli.Command{
		Name:   "pause",
		Usage:  "Stop all state-changing operations (owner only)",
		Action: pauseAction,
	}
	resumeCommand = cli.Command{
		Name:   "resume",
		Usage:  "Resume state-changing operations (owner only)",
		Action: resumeAction,
	}
	balanceCommand = cli.Command{
		Name:   "balance",
		Usage:  "Print credited balance of the account",
		Flags:  []cli.Flag{accountFlag},
		Action: balanceAction,
	}
	balancesCommand = cli.Command{
		Name:   "balances",
		Usage:  "Print all credited balances",
		Action: balancesAction,
	}
	statusCommand = cli.Command{
		Name:   "status",
		Usage:  "Print contract owner, pause state, held funds and version",
		Action: statusAction,
	}
)

// env groups resources shared by command actions.
type env struct {
	cfg Config
	log *zap.Logger
	out io.Writer
	bc  *remoteBlockchain
}

func newEnv(ctx *cli.Context) (*env, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	bc, err := newRemoteBlockchain(context.Background(), log, cfg)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &env{cfg: cfg, log: log, out: ctx.App.Writer, bc: bc}, nil
}

func (e *env) close() {
	e.bc.close()
	_ = e.log.Sync()
}

func deployAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	nefFile, m, err := readContract(ctx.String("nef"), ctx.String("manifest"))
	if err != nil {
		return err
	}

	acc, err := e.bc.account(e.cfg)
	if err != nil {
		return err
	}

	addr, err := deploy.Deploy(deploy.Prm{
		Logger:          e.log,
		Blockchain:      e.bc.rpc,
		LocalAccount:    acc,
		NEF:             nefFile,
		Manifest:        m,
		InitiallyPaused: ctx.Bool("paused"),
	})
	if err != nil {
		return fmt.Errorf("deploy contract: %w", err)
	}

	fmt.Fprintf(e.out, "Contract: %s\n", formatAccount(addr))
	return nil
}

func readContract(nefPath, manifestPath string) (nef.File, manifest.Manifest, error) {
	var m manifest.Manifest

	b, err := os.ReadFile(nefPath)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("read NEF file: %w", err)
	}

	nefFile, err := nef.FileFromBytes(b)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("decode NEF file: %w", err)
	}

	b, err = os.ReadFile(manifestPath)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("read manifest file: %w", err)
	}

	err = json.Unmarshal(b, &m)
	if err != nil {
		return nef.File{}, m, fmt.Errorf("decode manifest file: %w", err)
	}

	return nefFile, m, nil
}

func splitAction(ctx *cli.Context) error {
	b1, err := parseAccount(ctx.String("beneficiary1"))
	if err != nil {
		return fmt.Errorf("beneficiary1: %w", err)
	}

	b2, err := parseAccount(ctx.String("beneficiary2"))
	if err != nil {
		return fmt.Errorf("beneficiary2: %w", err)
	}

	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	c, w, err := e.bc.contract(e.cfg)
	if err != nil {
		return err
	}

	log, err := w.wait(c.MakeSplit(b1, b2, amount))
	if err != nil {
		return err
	}

	events, err := splitter.SplitPerformedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}

	for _, ev := range events {
		fmt.Fprintf(e.out, "Split %s GAS from %s: %s each to %s and %s, %s back\n",
			formatAmount(amount), formatAccount(ev.From), formatAmount(ev.Half),
			formatAccount(ev.Beneficiary1), formatAccount(ev.Beneficiary2), formatAmount(ev.Remainder))
	}

	return nil
}

func depositAction(ctx *cli.Context) error {
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	c, w, err := e.bc.contract(e.cfg)
	if err != nil {
		return err
	}

	log, err := w.wait(c.Deposit(amount))
	if err != nil {
		return err
	}

	events, err := splitter.AmountReceivedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}

	for _, ev := range events {
		fmt.Fprintf(e.out, "Credited %s GAS to %s\n", formatAmount(ev.Amount), formatAccount(ev.From))
	}

	return nil
}

func withdrawAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	c, w, err := e.bc.contract(e.cfg)
	if err != nil {
		return err
	}

	log, err := w.wait(c.Withdraw(w.act.Sender()))
	if err != nil {
		return err
	}

	events, err := splitter.WithdrawalEventsFromApplicationLog(log)
	if err != nil {
		return err
	}

	for _, ev := range events {
		fmt.Fprintf(e.out, "Withdrawn %s GAS to %s\n", formatAmount(ev.Amount), formatAccount(ev.Account))
	}

	return nil
}

func pauseAction(ctx *cli.Context) error {
	return switchPause(ctx, true)
}

func resumeAction(ctx *cli.Context) error {
	return switchPause(ctx, false)
}

func switchPause(ctx *cli.Context, pause bool) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	c, w, err := e.bc.contract(e.cfg)
	if err != nil {
		return err
	}

	var log *result.ApplicationLog
	if pause {
		log, err = w.wait(c.Pause())
	} else {
		log, err = w.wait(c.Resume())
	}
	if err != nil {
		return err
	}

	if pause {
		events, err := splitter.PausedEventsFromApplicationLog(log)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return errors.New("missing Paused notification")
		}
		fmt.Fprintf(e.out, "Paused by %s\n", formatAccount(events[0].Owner))
		return nil
	}

	events, err := splitter.ResumedEventsFromApplicationLog(log)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return errors.New("missing Resumed notification")
	}
	fmt.Fprintf(e.out, "Resumed by %s\n", formatAccount(events[0].Owner))
	return nil
}

func balanceAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	var acc util.Uint160
	if s := ctx.String("account"); s != "" {
		acc, err = parseAccount(s)
	} else {
		acc, err = defaultAccount(e.cfg)
	}
	if err != nil {
		return err
	}

	r, err := e.bc.reader(e.cfg)
	if err != nil {
		return err
	}

	b, err := r.BalanceOf(acc)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}

	fmt.Fprintf(e.out, "%s: %s GAS\n", formatAccount(acc), formatAmount(b))
	return nil
}

func balancesAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	r, err := e.bc.reader(e.cfg)
	if err != nil {
		return err
	}

	entries, err := r.Balances(splitter.DefaultIteratorBatch)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fmt.Fprintf(e.out, "%s: %s GAS\n", formatAccount(entry.Account), formatAmount(entry.Amount))
	}

	return nil
}

func statusAction(ctx *cli.Context) error {
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	r, err := e.bc.reader(e.cfg)
	if err != nil {
		return err
	}

	owner, err := r.Owner()
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}

	paused, err := r.Paused()
	if err != nil {
		return fmt.Errorf("get pause state: %w", err)
	}

	funds, err := r.Funds()
	if err != nil {
		return fmt.Errorf("get funds: %w", err)
	}

	version, err := r.Version()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}

	fmt.Fprintf(e.out, "Owner:   %s\n", formatAccount(owner))
	fmt.Fprintf(e.out, "Paused:  %t\n", paused)
	fmt.Fprintf(e.out, "Funds:   %s GAS\n", formatAmount(funds))
	fmt.Fprintf(e.out, "Version: %s\n", version)

	return nil
}
