package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseIdentities converts string addresses into common.Address.
func ParseIdentities(inputs []string) ([]common.Address, error) {
	identities := make([]common.Address, 0, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !common.IsHexAddress(input) {
			return nil, fmt.Errorf("invalid identity: %s", input)
		}
		identities = append(identities, common.HexToAddress(input))
	}
	return identities, nil
}
