package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

const (
	defaultDialTimeout = 15 * time.Second

	// walletPasswordEnv is an environment variable with the wallet password.
	// Empty password is used if it is not set.
	walletPasswordEnv = "SPLITTER_WALLET_PASSWORD"
)

// Config is the CLI configuration. It is read from the YAML file passed with
// --config flag, global flags override file values.
type Config struct {
	RPCEndpoint string        `yaml:"rpc_endpoint"`
	Wallet      string        `yaml:"wallet"`
	Address     string        `yaml:"address"`
	Contract    string        `yaml:"contract"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Debug       bool          `yaml:"debug"`
}

var (
	errMissingEndpoint = errors.New("missing Neo RPC endpoint")
	errMissingWallet   = errors.New("missing wallet")
	errMissingContract = errors.New("missing contract address")
)

// readConfig decodes YAML config file. Unknown fields are rejected.
func readConfig(path string) (Config, error) {
	var c Config

	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	err = dec.Decode(&c)
	if err != nil {
		return c, fmt.Errorf("decode config file %s: %w", path, err)
	}

	return c, nil
}

// loadConfig reads the config file (if any) and applies global flags.
func loadConfig(ctx *cli.Context) (Config, error) {
	var (
		c   Config
		err error
	)

	if path := ctx.GlobalString(configFlag); path != "" {
		c, err = readConfig(path)
		if err != nil {
			return c, err
		}
	}

	for flag, dst := range map[string]*string{
		rpcFlag:      &c.RPCEndpoint,
		walletFlag:   &c.Wallet,
		addressFlag:  &c.Address,
		contractFlag: &c.Contract,
	} {
		if v := ctx.GlobalString(flag); v != "" {
			*dst = v
		}
	}

	if ctx.GlobalBool(debugFlag) {
		c.Debug = true
	}

	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}

	return c, nil
}

func (c Config) checkEndpoint() error {
	if c.RPCEndpoint == "" {
		return errMissingEndpoint
	}
	return nil
}

func (c Config) checkWallet() error {
	if c.Wallet == "" {
		return errMissingWallet
	}
	return nil
}

func (c Config) checkContract() error {
	if c.Contract == "" {
		return errMissingContract
	}
	return nil
}
