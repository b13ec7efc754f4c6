package protocol

// SigningMessage builds the byte string the card signs and the host
// verifies: the domain-separation prefix, the card's nonce, the host's
// nonce, then any context fields in the order given. Context fields are a
// single slot byte, a sealed-slot public key, or a chain code, already
// validated for length by the caller.
//
// The final length is checked against the sum of the component lengths.
// Any mismatch means the message must not be signed or verified.
func SigningMessage(cardNonce, hostNonce []byte, context ...[]byte) ([]byte, error) {
	if len(cardNonce) != CardNonceSize {
		return nil, &FramingError{Field: "card nonce", Got: len(cardNonce), Want: CardNonceSize}
	}
	if len(hostNonce) != UserNonceSize {
		return nil, &FramingError{Field: "host nonce", Got: len(hostNonce), Want: UserNonceSize}
	}

	want := len(msgHeader) + CardNonceSize + UserNonceSize
	for _, c := range context {
		want += len(c)
	}

	msg := make([]byte, 0, want)
	msg = append(msg, msgHeader...)
	msg = append(msg, cardNonce...)
	msg = append(msg, hostNonce...)
	for _, c := range context {
		msg = append(msg, c...)
	}

	if len(msg) != want {
		return nil, &FramingError{Field: "signing message", Got: len(msg), Want: want}
	}
	return msg, nil
}
