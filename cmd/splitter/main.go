package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/splitter-contract/common"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configFlag   = "config"
	rpcFlag      = "rpc"
	walletFlag   = "wallet"
	addressFlag  = "address"
	contractFlag = "contract"
	debugFlag    = "debug"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "splitter"
	app.Usage = "Splitter contract client"
	app.Version = fmt.Sprintf("%d.%d.%d", common.Version/1_000_000, common.Version/1_000%1_000, common.Version%1_000)
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  configFlag + ", c",
			Usage: "Path to the YAML configuration file",
		},
		cli.StringFlag{
			Name:  rpcFlag + ", r",
			Usage: "Neo RPC server endpoint",
		},
		cli.StringFlag{
			Name:  walletFlag + ", w",
			Usage: "Path to the NEP-6 wallet file",
		},
		cli.StringFlag{
			Name:  addressFlag + ", a",
			Usage: "Wallet account to sign with (default account if not set)",
		},
		cli.StringFlag{
			Name:  contractFlag,
			Usage: "Splitter contract address or LE script hash",
		},
		cli.BoolFlag{
			Name:  debugFlag + ", d",
			Usage: "Enable debug logging",
		},
	}

	app.Commands = []cli.Command{
		deployCommand,
		splitCommand,
		depositCommand,
		withdrawCommand,
		pauseCommand,
		resumeCommand,
		balanceCommand,
		balancesCommand,
		statusCommand,
	}

	return app
}

// newLogger returns JSON production logger, or development one when debug
// is enabled.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "json"
	}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
