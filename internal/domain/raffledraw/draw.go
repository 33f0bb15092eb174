package raffledraw

import "github.com/stakepoint-labs/backend/internal/entity"

// Assignment is the outcome of one reward slot in a draw. WinAddress is
// empty when the slot was skipped because the pool ran out of eligible
// wallets before it was reached.
type Assignment struct {
	RewardID       string
	WinAddress     string
	Injected       bool
	TicketsHeld    int
	WinProbability float64
}

func (a Assignment) Skipped() bool {
	return a.WinAddress == ""
}

type Result struct {
	TotalParticipants int
	TotalTickets      int
	Assignments       []Assignment
}

// Draw resolves every reward of a raffle in reward_index order against the
// ticket pool built from participants.
//
// A reward carrying a pre-assigned winner is settled directly from that
// field and consumes nothing from the pool. Every other reward gets a
// uniformly random slot; the winning wallet then loses all of its remaining
// slots, so random rewards go to distinct wallets while the pool lasts.
// Rewards reached after the pool is exhausted stay unassigned.
func Draw(rewards []entity.RaffleReward, participants []entity.RaffleParticipant, src Source) Result {
	pool := BuildPool(participants)
	result := Result{
		TotalParticipants: pool.Participants(),
		TotalTickets:      pool.Size(),
	}

	pool.Shuffle(src)

	for _, reward := range rewards {
		if reward.InjectedWinner.Valid {
			result.Assignments = append(result.Assignments, Assignment{
				RewardID:       reward.ID,
				WinAddress:     reward.InjectedWinner.String,
				Injected:       true,
				TicketsHeld:    pool.TicketsOf(reward.InjectedWinner.String),
				WinProbability: winProbability(pool.TicketsOf(reward.InjectedWinner.String), result.TotalTickets),
			})
			continue
		}

		winner, ok := pool.Pick(src)
		if !ok {
			result.Assignments = append(result.Assignments, Assignment{RewardID: reward.ID})
			continue
		}

		pool.RemoveWallet(winner)
		result.Assignments = append(result.Assignments, Assignment{
			RewardID:       reward.ID,
			WinAddress:     winner,
			TicketsHeld:    pool.TicketsOf(winner),
			WinProbability: winProbability(pool.TicketsOf(winner), result.TotalTickets),
		})
	}

	return result
}

func winProbability(tickets, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(tickets) / float64(total) * 100
}
