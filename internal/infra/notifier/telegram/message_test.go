package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abduttayyeb07/Monitor/internal/transferwatch"
	"github.com/Abduttayyeb07/Monitor/internal/txenrich"
)

func TestDisplaySymbol(t *testing.T) {
	assert.Equal(t, "ZIG", displaySymbol("uzig"))
	assert.Equal(t, "ATOM", displaySymbol("uatom"))
	assert.Equal(t, "FOO", displaySymbol("foo"))
}

func TestFormatAlertText(t *testing.T) {
	t.Run("should describe an outgoing transfer", func(t *testing.T) {
		alert := testAlert()

		text := formatAlertText(alert)

		assert.Equal(t, "Sent 50 ZIG\nWallet: zig1aaa\nTo: zig1bbb\nTx: AB12", text)
	})

	t.Run("should describe an incoming transfer", func(t *testing.T) {
		alert := testAlert()
		alert.Wallet = "zig1bbb"
		alert.Direction = transferwatch.DirectionReceived

		text := formatAlertText(alert)

		assert.Equal(t, "Received 50 ZIG\nWallet: zig1bbb\nFrom: zig1aaa\nTx: AB12", text)
	})

	t.Run("should append the execution context when present", func(t *testing.T) {
		alert := testAlert()
		alert.Context = &txenrich.TxContext{
			EventType:       "wasm",
			ContractAddress: "zig1contract",
			Action:          "swap",
			OfferAsset:      "uzig",
			AskAsset:        "uoro",
			OfferAmount:     "50000000",
			ReturnAmount:    "120000",
		}

		text := formatAlertText(alert)

		assert.Contains(t, text, "Contract: zig1contract")
		assert.Contains(t, text, "Action: swap")
		assert.Contains(t, text, "Offered: 50000000 uzig")
		assert.Contains(t, text, "Returned: 120000 uoro")
	})

	t.Run("should skip context lines the lookup left empty", func(t *testing.T) {
		alert := testAlert()
		alert.Context = &txenrich.TxContext{
			EventType:       "wasm",
			ContractAddress: "zig1contract",
		}

		text := formatAlertText(alert)

		assert.Contains(t, text, "Contract: zig1contract")
		assert.NotContains(t, text, "Action:")
		assert.NotContains(t, text, "Offered:")
		assert.NotContains(t, text, "Returned:")
	})
}
