package protocol

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeCommand serializes a command for the transport layer.
func EncodeCommand(cmd any) ([]byte, error) {
	data, err := cbor.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("protocol: encoding command: %w", err)
	}
	return data, nil
}

// DecodeResponse parses a card reply into v. If the card answered with an
// error record instead, that error is returned as a *CardError.
func DecodeResponse(data []byte, v any) error {
	var ce CardError
	if err := cbor.Unmarshal(data, &ce); err == nil && ce.Msg != "" {
		return &ce
	}

	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("protocol: decoding response: %w", err)
	}
	return nil
}
