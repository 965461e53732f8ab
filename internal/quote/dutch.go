package quote

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DutchInputJSON is the input leg of an order as sent over the wire
type DutchInputJSON struct {
	Token       string `json:"token"`
	StartAmount string `json:"startAmount"`
	EndAmount   string `json:"endAmount"`
}

// DutchOutputJSON is an output leg of an order as sent over the wire
type DutchOutputJSON struct {
	Token       string `json:"token"`
	StartAmount string `json:"startAmount"`
	EndAmount   string `json:"endAmount"`
	Recipient   string `json:"recipient"`
}

// DutchOrderInfoJSON is an off-chain order with decimal string amounts
type DutchOrderInfoJSON struct {
	Reactor                      string            `json:"reactor"`
	Swapper                      string            `json:"swapper"`
	Nonce                        string            `json:"nonce"`
	Deadline                     int64             `json:"deadline"`
	AdditionalValidationContract string            `json:"additionalValidationContract"`
	AdditionalValidationData     string            `json:"additionalValidationData"`
	DecayStartTime               int64             `json:"decayStartTime"`
	DecayEndTime                 int64             `json:"decayEndTime"`
	ExclusiveFiller              string            `json:"exclusiveFiller"`
	ExclusivityOverrideBps       string            `json:"exclusivityOverrideBps"`
	Input                        DutchInputJSON    `json:"input"`
	Outputs                      []DutchOutputJSON `json:"outputs"`
}

type DutchInput struct {
	Token       common.Address
	StartAmount *big.Int
	EndAmount   *big.Int
}

type DutchOutput struct {
	Token       common.Address
	StartAmount *big.Int
	EndAmount   *big.Int
	Recipient   common.Address
}

// DutchOrderInfo is an off-chain order with integer amounts
type DutchOrderInfo struct {
	Reactor                common.Address
	Swapper                common.Address
	Nonce                  *big.Int
	Deadline               int64
	DecayStartTime         int64
	DecayEndTime           int64
	ExclusiveFiller        common.Address
	ExclusivityOverrideBps *big.Int
	Input                  DutchInput
	Outputs                []DutchOutput
}

func parseBig(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s: %q", field, s)
	}
	return v, nil
}

// ParseDutchOrderInfo converts the wire order into integer amounts
func ParseDutchOrderInfo(info DutchOrderInfoJSON) (DutchOrderInfo, error) {
	nonce, err := parseBig("nonce", info.Nonce)
	if err != nil {
		return DutchOrderInfo{}, err
	}
	override, err := parseBig("exclusivityOverrideBps", info.ExclusivityOverrideBps)
	if err != nil {
		return DutchOrderInfo{}, err
	}
	inStart, err := parseBig("input.startAmount", info.Input.StartAmount)
	if err != nil {
		return DutchOrderInfo{}, err
	}
	inEnd, err := parseBig("input.endAmount", info.Input.EndAmount)
	if err != nil {
		return DutchOrderInfo{}, err
	}

	outputs := make([]DutchOutput, 0, len(info.Outputs))
	for i, o := range info.Outputs {
		start, err := parseBig(fmt.Sprintf("outputs[%d].startAmount", i), o.StartAmount)
		if err != nil {
			return DutchOrderInfo{}, err
		}
		end, err := parseBig(fmt.Sprintf("outputs[%d].endAmount", i), o.EndAmount)
		if err != nil {
			return DutchOrderInfo{}, err
		}
		outputs = append(outputs, DutchOutput{
			Token:       common.HexToAddress(o.Token),
			StartAmount: start,
			EndAmount:   end,
			Recipient:   common.HexToAddress(o.Recipient),
		})
	}

	return DutchOrderInfo{
		Reactor:                common.HexToAddress(info.Reactor),
		Swapper:                common.HexToAddress(info.Swapper),
		Nonce:                  nonce,
		Deadline:               info.Deadline,
		DecayStartTime:         info.DecayStartTime,
		DecayEndTime:           info.DecayEndTime,
		ExclusiveFiller:        common.HexToAddress(info.ExclusiveFiller),
		ExclusivityOverrideBps: override,
		Input: DutchInput{
			Token:       common.HexToAddress(info.Input.Token),
			StartAmount: inStart,
			EndAmount:   inEnd,
		},
		Outputs: outputs,
	}, nil
}
