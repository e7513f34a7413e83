package transferwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Abduttayyeb07/Monitor/internal/chainstream"
	"github.com/Abduttayyeb07/Monitor/internal/destregistry"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/coin"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/logger"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/types"
	"github.com/Abduttayyeb07/Monitor/internal/pkg/x/chflow"
	"github.com/Abduttayyeb07/Monitor/internal/txenrich"
	"github.com/Abduttayyeb07/Monitor/internal/txextract"
)

// handleFrames consumes the stream until the channel closes or the context
// is canceled. Each frame is fully processed before the next one is read; a
// bad frame never stops the stream.
func (s *service) handleFrames(ctx context.Context, framesCh <-chan chainstream.RawFrame) {
	for {
		frame, ok := chflow.Receive(ctx, framesCh)
		if !ok {
			return
		}

		s.handleFrame(ctx, frame)
	}
}

// startHandleFrames starts the frame consumer in a new goroutine. It returns
// immediately; the loop runs until the context is canceled or the frame
// channel is closed.
func (s *service) startHandleFrames(ctx context.Context, framesCh <-chan chainstream.RawFrame) {
	go s.handleFrames(ctx, framesCh)
}

// handleFrame runs one raw frame through the pipeline: decode, extract,
// group by transaction hash, and process each previously unseen group.
func (s *service) handleFrame(ctx context.Context, frame chainstream.RawFrame) {
	payload, err := decodeFrame(frame)
	if err != nil {
		logger.Debug(ctx, "dropping non-JSON frame", "error", err)
		return
	}

	transfers := txextract.Extract(payload)
	if len(transfers) == 0 {
		s.logUnmatchedPayload(ctx, payload)
		return
	}

	var (
		order  = make([]string, 0, 1)
		groups = types.NewDefaultMap[string](func() []txextract.Transfer { return nil })
	)
	for _, transfer := range transfers {
		if s.ledger.Seen(transfer.TxHash) {
			logger.Debug(ctx, "skipping already processed transaction", "txHash", transfer.TxHash)
			continue
		}

		group := groups.Get(transfer.TxHash)
		if len(group) == 0 {
			order = append(order, transfer.TxHash)
		}
		groups.Set(transfer.TxHash, append(group, transfer))
	}

	for _, txHash := range order {
		s.processTransferGroup(ctx, txHash, groups.Get(txHash))
	}
}

// decodeFrame parses a raw frame as JSON. Numbers are kept as json.Number so
// large amounts survive decoding intact.
func decodeFrame(frame chainstream.RawFrame) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(frame))
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// processTransferGroup handles all transfers sharing one transaction hash:
// one enrichment lookup for the whole group, then per-transfer policy checks
// and alert dispatch. The hash is marked seen afterwards whether or not any
// alert fired, so a retransmission of non-matching transfers is not
// reprocessed.
func (s *service) processTransferGroup(ctx context.Context, txHash string, transfers []txextract.Transfer) {
	defer s.ledger.MarkSeen(txHash)

	destination, ok := s.loadDestination(ctx)
	if !ok {
		return
	}

	txContext := s.enrichment.Lookup(ctx, txHash)

	for _, transfer := range transfers {
		s.dispatchTransfer(ctx, destination, transfer, txContext)
	}
}

// dispatchTransfer applies the alert policy to one transfer and emits one
// directional alert per watched side. A self-transfer between two watched
// addresses emits both directions.
func (s *service) dispatchTransfer(ctx context.Context, destination string, transfer txextract.Transfer, txContext *txenrich.TxContext) {
	senderWatched := s.watchlist.Has(transfer.Sender)
	recipientWatched := s.watchlist.Has(transfer.Recipient)
	if !senderWatched && !recipientWatched {
		return
	}

	if transfer.Denom != s.baseDenom {
		logger.Debug(ctx, "skipping transfer of foreign denom", "txHash", transfer.TxHash, "denom", transfer.Denom)
		return
	}
	if transfer.Amount.Cmp(s.minAmount) < 0 {
		logger.Debug(ctx, "skipping transfer below minimum amount", "txHash", transfer.TxHash, "amount", transfer.Amount.String())
		return
	}

	if senderWatched {
		s.deliverAlert(ctx, destination, s.buildAlert(transfer.Sender, DirectionSent, transfer, txContext))
	}
	if recipientWatched {
		s.deliverAlert(ctx, destination, s.buildAlert(transfer.Recipient, DirectionReceived, transfer, txContext))
	}
}

func (s *service) buildAlert(wallet string, direction Direction, transfer txextract.Transfer, txContext *txenrich.TxContext) Alert {
	return Alert{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Wallet:        wallet,
		Direction:     direction,
		DisplayAmount: coin.FormatAmount(transfer.Amount, s.displayScale),
		BaseAmount:    transfer.Amount,
		Denom:         transfer.Denom,
		TxHash:        transfer.TxHash,
		Sender:        transfer.Sender,
		Recipient:     transfer.Recipient,
		Context:       txContext,
		ObservedAt:    time.Now().UTC(),
	}
}

// deliverAlert hands one alert to the notifier. Failures are logged and
// swallowed: alert delivery is never retried.
func (s *service) deliverAlert(ctx context.Context, destination string, alert Alert) {
	if err := s.notifier.NotifyTransfer(ctx, destination, alert); err != nil {
		logger.Error(ctx, "alert delivery failed",
			"alert.id", alert.ID,
			"alert.wallet", alert.Wallet,
			"alert.txHash", alert.TxHash,
			"error", err,
		)
	}
}

// loadDestination resolves the active alert destination. Without one there
// is nowhere to deliver, so the caller skips the group.
func (s *service) loadDestination(ctx context.Context) (string, bool) {
	destination, err := s.destinationStorage.LoadDestination(ctx)
	if err != nil {
		if errors.Is(err, destregistry.ErrNoDestinationConfigured) {
			logger.Debug(ctx, "no alert destination configured, skipping dispatch")
		} else {
			logger.Error(ctx, "failed to load alert destination", "error", err)
		}
		return "", false
	}
	return destination, true
}

// logUnmatchedPayload is the auxiliary path for frames that yielded no
// transfers: subscription acks and RPC errors are recognized and logged as
// such, everything else is sampled.
func (s *service) logUnmatchedPayload(ctx context.Context, payload any) {
	if obj, ok := payload.(map[string]any); ok {
		if _, hasID := obj["id"]; hasID {
			if rpcErr, ok := obj["error"].(map[string]any); ok {
				logger.Warn(ctx, "stream rpc error", "code", rpcErr["code"], "message", rpcErr["message"])
				return
			}
			if _, hasResult := obj["result"]; hasResult {
				logger.Debug(ctx, "stream subscription acknowledged", "id", obj["id"])
				return
			}
		}
	}

	s.unmatchedCount++
	if s.unmatchedSampleRate > 0 && (s.unmatchedCount-1)%uint64(s.unmatchedSampleRate) == 0 {
		logger.Debug(ctx, "unrecognized stream payload", "count", s.unmatchedCount)
	}
}
