package vm

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Environment is the read-only block/transaction context the
// ADDRESS..SELFBALANCE family and CALLDATA* opcodes consume. spec.md
// scopes it to a boundary-injected record rather than anything the VM
// derives itself — there is no block, no mempool, no signer recovery
// behind it, just whatever the caller supplies.
//
// Addresses (Coinbase, Origin, Caller, Self) are stored as U256 with only
// the low 160 bits significant, the same convention the EVM itself uses
// for packing a 20-byte address into a 256-bit word.
type Environment struct {
	BlockNumber U256
	Timestamp   U256
	Difficulty  U256
	GasLimit    U256
	ChainID     U256

	Coinbase U256
	Origin   U256
	Caller   U256
	Self     U256

	CallValue   U256
	GasPrice    U256
	SelfBalance U256

	CallData []byte
}

// environmentFile is the YAML shape --env decodes into. Every field is
// optional and defaults to the zero word, so a partial file only
// overrides what it names.
type environmentFile struct {
	BlockNumber string `yaml:"block_number"`
	Timestamp   string `yaml:"timestamp"`
	Difficulty  string `yaml:"difficulty"`
	GasLimit    string `yaml:"gas_limit"`
	ChainID     string `yaml:"chain_id"`
	Coinbase    string `yaml:"coinbase"`
	Origin      string `yaml:"origin"`
	Caller      string `yaml:"caller"`
	Self        string `yaml:"self"`
	CallValue   string `yaml:"call_value"`
	GasPrice    string `yaml:"gas_price"`
	SelfBalance string `yaml:"self_balance"`
	CallData    string `yaml:"call_data"`
}

func decodeWord(s string) (U256, error) {
	if s == "" {
		return U256{}, nil
	}
	b, err := DecodeROM(s)
	if err != nil {
		return U256{}, err
	}
	return SetBytes(b), nil
}

// LoadEnvironment reads a YAML file in the environmentFile shape and
// decodes it into an Environment. Absent a --env flag the run subcommand
// never calls this, leaving every field at its zero value.
func LoadEnvironment(path string) (Environment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Environment{}, errors.Wrap(err, "reading environment file")
	}
	var f environmentFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Environment{}, errors.Wrap(err, "parsing environment file")
	}

	var env Environment
	fields := []struct {
		src string
		dst *U256
	}{
		{f.BlockNumber, &env.BlockNumber},
		{f.Timestamp, &env.Timestamp},
		{f.Difficulty, &env.Difficulty},
		{f.GasLimit, &env.GasLimit},
		{f.ChainID, &env.ChainID},
		{f.Coinbase, &env.Coinbase},
		{f.Origin, &env.Origin},
		{f.Caller, &env.Caller},
		{f.Self, &env.Self},
		{f.CallValue, &env.CallValue},
		{f.GasPrice, &env.GasPrice},
		{f.SelfBalance, &env.SelfBalance},
	}
	for _, fl := range fields {
		w, err := decodeWord(fl.src)
		if err != nil {
			return Environment{}, err
		}
		*fl.dst = w
	}
	if f.CallData != "" {
		cd, err := DecodeROM(f.CallData)
		if err != nil {
			return Environment{}, err
		}
		env.CallData = cd
	}
	return env, nil
}
