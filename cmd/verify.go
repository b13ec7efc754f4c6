package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/opensats/cardauth/keys"
	"github.com/opensats/cardauth/protocol"
	"github.com/opensats/cardauth/verify"
)

// sessionCapture is an offline record of one status/check/certs exchange,
// written by whatever tool drove the NFC transport. All byte fields are
// hex.
type sessionCapture struct {
	CardNonce  string   `json:"card_nonce"`
	PubKey     string   `json:"pubkey"`
	Address    string   `json:"addr,omitempty"`
	TapSigner  bool     `json:"tapsigner,omitempty"`
	Testnet    bool     `json:"testnet,omitempty"`
	Slots      []int    `json:"slots,omitempty"`
	HostNonce  string   `json:"host_nonce"`
	AuthSig    string   `json:"auth_sig"`
	CertChain  []string `json:"cert_chain"`
	SlotPubKey string   `json:"slot_pubkey,omitempty"`
	ReadSig    string   `json:"read_sig,omitempty"`
	ReadPubKey string   `json:"read_pubkey,omitempty"`
}

// VerifyCommand creates the verify command
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Verify a captured card session against the factory trust chain",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "session",
				Usage:    "Path to a captured session JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "roots",
				Usage: "File of additional trusted root keys (hex, one per line)",
			},
		},
		Action: runVerifyCommand,
	}
}

func runVerifyCommand(ctx context.Context, cmd *cli.Command) error {
	capture, err := loadCapture(cmd.String("session"))
	if err != nil {
		return err
	}

	roots := keys.Builtin()
	if path := cmd.String("roots"); path != "" {
		extra, err := keys.LoadFile(path)
		if err != nil {
			return err
		}
		roots = append(roots, extra...)
	}

	service, err := verify.New(roots)
	if err != nil {
		return err
	}

	status := &protocol.StatusResponse{
		PublicKey: mustHex(capture.PubKey),
		CardNonce: mustHex(capture.CardNonce),
		Address:   capture.Address,
		TapSigner: capture.TapSigner,
		Testnet:   capture.Testnet,
		Slots:     capture.Slots,
	}
	check := &protocol.CheckResponse{AuthSignature: mustHex(capture.AuthSig)}
	certs := &protocol.CertsResponse{}
	for _, link := range capture.CertChain {
		certs.CertChain = append(certs.CertChain, mustHex(link))
	}

	var slotPubKey []byte
	if capture.SlotPubKey != "" {
		slotPubKey = mustHex(capture.SlotPubKey)
	}

	root, err := service.VerifyCerts(status, check, certs, mustHex(capture.HostNonce), slotPubKey)
	if err != nil {
		return fmt.Errorf("certificate verification failed: %w", err)
	}

	ident, err := protocol.Ident(status.PublicKey)
	if err != nil {
		return err
	}

	output := map[string]any{
		"genuine": true,
		"root":    hex.EncodeToString(root),
		"ident":   ident,
	}

	// SATSCARD captures may include a read response; run the
	// anti-counterfeiting address check as well.
	if !capture.TapSigner && capture.ReadSig != "" {
		read := &protocol.ReadResponse{
			Signature: mustHex(capture.ReadSig),
			PublicKey: mustHex(capture.ReadPubKey),
		}
		pubkey, addr, err := service.RecoverAddress(status, read, mustHex(capture.HostNonce))
		if err != nil {
			return fmt.Errorf("address verification failed: %w", err)
		}
		output["address"] = addr
		output["slot_pubkey"] = hex.EncodeToString(pubkey)
	}

	jsonOutput, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonOutput))
	return nil
}

func loadCapture(path string) (*sessionCapture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var capture sessionCapture
	if err := json.Unmarshal(data, &capture); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &capture, nil
}

// mustHex decodes a capture field, tolerating empty input. Bad hex in a
// capture is reported by the verification itself as a length mismatch.
func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}
