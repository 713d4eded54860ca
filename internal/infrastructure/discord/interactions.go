package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Interaction request types.
const (
	InteractionPing             = 1
	InteractionMessageComponent = 3
)

// Interaction response types and flags.
const (
	ResponsePong           = 1
	ResponseChannelMessage = 4

	MessageFlagEphemeral = 64
)

// InteractionData carries the pressed component.
type InteractionData struct {
	CustomID      string `json:"custom_id"`
	ComponentType int    `json:"component_type"`
}

// Member is the guild member who triggered an interaction.
type Member struct {
	User User `json:"user"`
}

// Interaction is the subset of an interaction payload the bridge handles.
type Interaction struct {
	ID        Snowflake        `json:"id"`
	Type      int              `json:"type"`
	Token     string           `json:"token"`
	GuildID   Snowflake        `json:"guild_id"`
	ChannelID Snowflake        `json:"channel_id"`
	Member    *Member          `json:"member"`
	User      *User            `json:"user"`
	Data      *InteractionData `json:"data"`
	Message   *Message         `json:"message"`
}

// Invoker returns the user behind the interaction, whether it arrived from
// a guild (member) or a DM (user).
func (i *Interaction) Invoker() User {
	if i.Member != nil {
		return i.Member.User
	}
	if i.User != nil {
		return *i.User
	}
	return User{}
}

// ResponseData is the message body of an interaction response.
type ResponseData struct {
	Content string `json:"content,omitempty"`
	Flags   int    `json:"flags,omitempty"`
}

// InteractionResponse is the reply sent back on the interaction webhook.
type InteractionResponse struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// SignatureVerifier checks interaction webhook signatures against the
// application public key.
type SignatureVerifier struct {
	publicKey ed25519.PublicKey
}

func NewSignatureVerifier(hexKey string) (*SignatureVerifier, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid public key encoding: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length %d", len(key))
	}
	return &SignatureVerifier{publicKey: ed25519.PublicKey(key)}, nil
}

// Verify checks the signature over timestamp followed by the raw body.
func (v *SignatureVerifier) Verify(timestamp string, body []byte, signatureHex string) bool {
	signature, err := hex.DecodeString(signatureHex)
	if err != nil || len(signature) != ed25519.SignatureSize {
		return false
	}
	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)
	return ed25519.Verify(v.publicKey, message, signature)
}
