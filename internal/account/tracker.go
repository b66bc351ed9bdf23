package account

import (
	"fmt"
	"time"

	"github.com/ckb-tps-bench/bench/internal/log"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// progressInterval bounds how often PullUntil logs bootstrap progress.
const progressInterval = 10 * time.Second

// PullUntil scans blocks [0, until] and returns this account's live cells
// split into mature (immediately spendable) and immature (coinbase cells
// still inside the maturity window, oldest first).
func (a *Account) PullUntil(client blockFetcher, until uint64) ([]UTXO, []immature, error) {
	mature := make(map[types.OutPoint]UTXO)
	pending := make(map[types.OutPoint]immature)

	lastLog := time.Now()
	for n := uint64(0); n <= until; n++ {
		block, err := fetchBlock(client, n)
		if err != nil {
			return nil, nil, err
		}
		if block == nil {
			return nil, nil, fmt.Errorf("block %d missing during bootstrap scan", n)
		}

		matured, unmatured := a.ownedOutputs(block)
		for _, u := range matured {
			mature[u.OutPoint] = u
		}
		for _, u := range unmatured {
			if types.IsCellbaseMature(until, n, a.maturityWindow) {
				mature[u.OutPoint] = u
			} else {
				pending[u.OutPoint] = immature{createdAt: n, utxo: u}
			}
		}

		for _, tx := range block.Transactions {
			for _, in := range tx.Inputs {
				delete(mature, in.PreviousOutput)
				delete(pending, in.PreviousOutput)
			}
		}

		if time.Since(lastLog) > progressInterval {
			log.UTXO.Info().Uint64("block", n).Uint64("until", until).Msg("bootstrap scan progress")
			lastLog = time.Now()
		}
	}

	utxos := make([]UTXO, 0, len(mature))
	for _, u := range mature {
		utxos = append(utxos, u)
	}

	immatures := make([]immature, 0, len(pending))
	for _, im := range pending {
		immatures = append(immatures, im)
	}
	sortImmatures(immatures)

	return utxos, immatures, nil
}

func sortImmatures(s []immature) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].createdAt < s[j-1].createdAt; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// tipHeaderFetcher is the endpoint-set contract PullForever drives against:
// a re-org-robust, confirmed view of the chain.
type tipHeaderFetcher interface {
	blockFetcher
	FixedHeader(n uint64) (*types.Header, error)
}

// PullForever streams confirmed blocks starting after current, emitting
// every matured owned output on out and promoting immature entries as they
// mature. It returns nil once done is closed (checked between iterations
// and while blocked sending on out), and an error when a header or block
// fetch fails. out is never closed by PullForever, and it must not be
// closed by the receiver while PullForever is running.
func (a *Account) PullForever(client tipHeaderFetcher, current *types.Header, pending []immature, out chan<- UTXO, done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return nil
		default:
		}

		next, err := client.FixedHeader(uint64(current.Number) + 1)
		if err != nil {
			return fmt.Errorf("fixed header at %d: %w", uint64(current.Number)+1, err)
		}
		if next == nil {
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if next.ParentHash != current.Hash {
			rollbackTo := rollbackTarget(uint64(current.Number))
			rolled, err := client.FixedHeader(rollbackTo)
			if err != nil {
				return fmt.Errorf("rollback fixed header at %d: %w", rollbackTo, err)
			}
			if rolled == nil {
				time.Sleep(500 * time.Millisecond)
				continue
			}
			current = rolled
			log.UTXO.Warn().Uint64("rolled_back_to", uint64(current.Number)).Msg("re-org detected, rolling back")
			continue
		}

		block, err := fetchBlock(client, uint64(next.Number))
		if err != nil {
			return err
		}
		if block == nil {
			time.Sleep(500 * time.Millisecond)
			continue
		}

		matured, unmatured := a.ownedOutputs(block)
		for _, u := range matured {
			if !send(out, u, done) {
				return nil
			}
		}

		tipNumber := uint64(next.Number)
		for len(pending) > 0 && types.IsCellbaseMature(tipNumber, pending[0].createdAt, a.maturityWindow) {
			if !send(out, pending[0].utxo, done) {
				return nil
			}
			pending = pending[1:]
		}

		for _, u := range unmatured {
			pending = append(pending, immature{createdAt: uint64(next.Number), utxo: u})
		}
		sortImmatures(pending)

		current = next
	}
}

// rollbackTarget returns the height PullForever rewinds to on a detected
// re-org: currentNumber - DefaultReorgRollback, floored at 0.
func rollbackTarget(currentNumber uint64) uint64 {
	if currentNumber > types.DefaultReorgRollback {
		return currentNumber - types.DefaultReorgRollback
	}
	return 0
}

// send delivers u on out, returning false if done fires first (downstream
// shut down) instead of blocking forever on a full, abandoned channel.
func send(out chan<- UTXO, u UTXO, done <-chan struct{}) bool {
	select {
	case out <- u:
		return true
	case <-done:
		return false
	}
}
