package raffledraw

import (
	"golang.org/x/exp/slices"

	"github.com/stakepoint-labs/backend/internal/entity"
	"github.com/stakepoint-labs/backend/pkg/crypto"
)

// Source yields uniform random indexes. The production source reads the
// platform cryptographic generator; tests inject deterministic ones.
type Source interface {
	Intn(n int) int
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	return crypto.RandIntn(n)
}

func NewCryptoSource() Source {
	return cryptoSource{}
}

// Pool is the selection substrate of a draw: a flat list of tickets, one
// slot per ticket unit, each slot holding the buyer's wallet address.
type Pool struct {
	slots   []string
	weights map[string]int
}

// BuildPool expands the participation rows of a raffle into the flat ticket
// pool. Amounts of the same wallet are cumulative. The weight distribution
// is a pure function of the rows; only the physical order is randomized
// later by Shuffle.
func BuildPool(participants []entity.RaffleParticipant) *Pool {
	weights := map[string]int{}
	order := []string{}
	for _, p := range participants {
		if !slices.Contains(order, p.WalletAddress) {
			order = append(order, p.WalletAddress)
		}

		weights[p.WalletAddress] += p.Amount
	}

	slots := []string{}
	for _, wallet := range order {
		for i := 0; i < weights[wallet]; i++ {
			slots = append(slots, wallet)
		}
	}

	return &Pool{slots: slots, weights: weights}
}

func (p *Pool) Size() int {
	return len(p.slots)
}

func (p *Pool) Participants() int {
	return len(p.weights)
}

// TicketsOf returns the number of tickets the wallet bought, regardless of
// how many slots are still in the pool.
func (p *Pool) TicketsOf(wallet string) int {
	return p.weights[wallet]
}

// Shuffle permutes the slots with a Fisher-Yates walk over the source, so
// every permutation is equally likely and insertion order carries no bias.
func (p *Pool) Shuffle(src Source) {
	for i := len(p.slots) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		p.slots[i], p.slots[j] = p.slots[j], p.slots[i]
	}
}

// Pick draws one slot uniformly at random and returns its wallet. It
// reports false when the pool is exhausted.
func (p *Pool) Pick(src Source) (string, bool) {
	if len(p.slots) == 0 {
		return "", false
	}

	return p.slots[src.Intn(len(p.slots))], true
}

// RemoveWallet drops every remaining slot of the wallet, preventing it from
// winning again unless it is the only participant left.
func (p *Pool) RemoveWallet(wallet string) {
	remaining := p.slots[:0]
	for _, slot := range p.slots {
		if slot != wallet {
			remaining = append(remaining, slot)
		}
	}

	p.slots = remaining
}
