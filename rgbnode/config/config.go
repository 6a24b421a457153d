// Package config is the flat daemon configuration for a node storing and
// validating RGB-style contract operations: chain/network selection, data
// directory, bind address, log level and the set of schema files a
// deployment trusts. Shape and validation style are carried from the
// teacher's node/config.go, generalized from a peer-to-peer block relay
// daemon's fields to a contract-graph daemon's.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"lnpbp.dev/rgb-consensus/rgb/contract"
)

// Config is the full set of a daemon's operator-supplied settings.
type Config struct {
	ChainNet    string   `json:"chain_net"`
	DataDir     string   `json:"data_dir"`
	BindAddr    string   `json:"bind_addr"`
	LogLevel    string   `json:"log_level"`
	SchemaPaths []string `json:"schema_paths"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var allowedChainNets = map[string]contract.ChainNet{
	"bitcoinMainnet":  contract.ChainNetBitcoinMainnet,
	"bitcoinTestnet3": contract.ChainNetBitcoinTestnet3,
	"bitcoinTestnet4": contract.ChainNetBitcoinTestnet4,
	"bitcoinSignet":   contract.ChainNetBitcoinSignet,
	"bitcoinRegtest":  contract.ChainNetBitcoinRegtest,
	"liquidMainnet":   contract.ChainNetLiquidMainnet,
	"liquidTestnet":   contract.ChainNetLiquidTestnet,
}

// DefaultDataDir mirrors the teacher's fallback-to-a-dotdir behavior when
// the user's home directory can't be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rgb-consensus"
	}
	return filepath.Join(home, ".rgb-consensus")
}

// DefaultConfig returns a Config usable as-is for a local regtest node.
func DefaultConfig() Config {
	return Config{
		ChainNet: "bitcoinRegtest",
		DataDir:  DefaultDataDir(),
		BindAddr: "127.0.0.1:19221",
		LogLevel: "info",
	}
}

// ResolveChainNet resolves cfg.ChainNet to its typed enum value. Call
// Validate first; ResolveChainNet does not itself check for an unknown name.
func (cfg Config) ResolveChainNet() contract.ChainNet {
	return allowedChainNets[cfg.ChainNet]
}

// Validate checks the structural invariants the daemon depends on before
// opening any store or socket.
func Validate(cfg Config) error {
	if _, ok := allowedChainNets[cfg.ChainNet]; !ok {
		return fmt.Errorf("invalid chain_net %q", cfg.ChainNet)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if err := validateAddr(cfg.BindAddr); err != nil {
		return fmt.Errorf("invalid bind_addr: %w", err)
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	for _, p := range cfg.SchemaPaths {
		if strings.TrimSpace(p) == "" {
			return errors.New("schema_paths contains an empty entry")
		}
	}
	return nil
}

func validateAddr(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("empty address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if strings.TrimSpace(port) == "" {
		return errors.New("missing port")
	}
	if strings.Contains(host, " ") {
		return errors.New("invalid host")
	}
	return nil
}
