package telegram

import (
	"fmt"
	"strings"

	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"
)

// sendMessageRequest is the JSON body of the Bot API sendMessage call.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// displaySymbol renders a micro-denom as its display ticker, so "uzig"
// becomes "ZIG".
func displaySymbol(denom string) string {
	return strings.ToUpper(strings.TrimPrefix(denom, "u"))
}

// formatAlertText lays one alert out as a compact plain-text message: the
// direction line with the display amount, the watched wallet, the
// counterparty, the transaction hash, and the execution context when the
// lookup produced one.
func formatAlertText(alert transferwatch.Alert) string {
	var b strings.Builder

	symbol := displaySymbol(alert.Denom)
	if alert.Direction == transferwatch.DirectionSent {
		fmt.Fprintf(&b, "Sent %s %s\n", alert.DisplayAmount, symbol)
		fmt.Fprintf(&b, "Wallet: %s\n", alert.Wallet)
		fmt.Fprintf(&b, "To: %s\n", alert.Recipient)
	} else {
		fmt.Fprintf(&b, "Received %s %s\n", alert.DisplayAmount, symbol)
		fmt.Fprintf(&b, "Wallet: %s\n", alert.Wallet)
		fmt.Fprintf(&b, "From: %s\n", alert.Sender)
	}
	fmt.Fprintf(&b, "Tx: %s", alert.TxHash)

	if c := alert.Context; c != nil {
		if c.ContractAddress != "" {
			fmt.Fprintf(&b, "\nContract: %s", c.ContractAddress)
		}
		if c.Action != "" {
			fmt.Fprintf(&b, "\nAction: %s", c.Action)
		}
		if c.OfferAmount != "" && c.OfferAsset != "" {
			fmt.Fprintf(&b, "\nOffered: %s %s", c.OfferAmount, c.OfferAsset)
		}
		if c.ReturnAmount != "" && c.AskAsset != "" {
			fmt.Fprintf(&b, "\nReturned: %s %s", c.ReturnAmount, c.AskAsset)
		}
	}

	return b.String()
}
