package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// GenesisAccount is an identity funded at startup.
type GenesisAccount struct {
	Identity common.Address
	Base     *big.Int
	Quote    *big.Int
}

// ParseGenesis parses funded-account entries of the form
// "identity=baseAmount:quoteAmount".
func ParseGenesis(inputs []string) ([]GenesisAccount, error) {
	accounts := make([]GenesisAccount, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		parts := strings.SplitN(input, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid genesis entry: %s", input)
		}
		if !common.IsHexAddress(parts[0]) {
			return nil, fmt.Errorf("invalid genesis identity: %s", parts[0])
		}

		amounts := strings.SplitN(parts[1], ":", 2)
		if len(amounts) != 2 {
			return nil, fmt.Errorf("invalid genesis amounts: %s", parts[1])
		}
		base, ok := new(big.Int).SetString(strings.TrimSpace(amounts[0]), 10)
		if !ok || base.Sign() < 0 {
			return nil, fmt.Errorf("invalid genesis base amount: %s", amounts[0])
		}
		quote, ok := new(big.Int).SetString(strings.TrimSpace(amounts[1]), 10)
		if !ok || quote.Sign() < 0 {
			return nil, fmt.Errorf("invalid genesis quote amount: %s", amounts[1])
		}

		accounts = append(accounts, GenesisAccount{
			Identity: common.HexToAddress(parts[0]),
			Base:     base,
			Quote:    quote,
		})
	}
	return accounts, nil
}
