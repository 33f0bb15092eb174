package model

import "time"

type Raffle struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PointPerTicket uint64    `json:"point_per_ticket"`
	MaxTickets     int       `json:"max_tickets"`
	UsedTickets    int       `json:"used_tickets"`
	CreatedBy      string    `json:"created_by"`
}

type RaffleReward struct {
	ID             string         `json:"id"`
	RewardIndex    int            `json:"reward_index"`
	Prize          map[string]any `json:"prize"`
	WinAddress     string         `json:"win_address,omitempty"`
	TicketsHeld    int            `json:"tickets_held,omitempty"`
	WinProbability float64        `json:"win_probability,omitempty"`
}

type CreateRaffleRequest struct {
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	PointPerTicket uint64    `json:"point_per_ticket"`
	MaxTickets     int       `json:"max_tickets"`
	Rewards        []struct {
		Prize          map[string]any `json:"prize"`
		InjectedWinner string         `json:"injected_winner"`
	} `json:"rewards"`
}

type CreateRaffleResponse struct {
	ID string `json:"id"`
}

type GetRaffleRequest struct {
	ID string `json:"id"`
}

type RaffleParticipant struct {
	WalletAddress string `json:"wallet_address"`
	Tickets       int    `json:"tickets"`
}

type GetRaffleResponse struct {
	Raffle       Raffle              `json:"raffle"`
	Rewards      []RaffleReward      `json:"rewards"`
	Participants []RaffleParticipant `json:"participants"`
}

type GetListRaffleRequest struct {
	ProjectID string `json:"project_id"`
}

type GetListRaffleResponse struct {
	Raffles []Raffle `json:"raffles"`
}

type BuyRaffleTicketsRequest struct {
	RaffleID      string `json:"raffle_id"`
	NumberTickets int    `json:"number_tickets"`
}

type BuyRaffleTicketsResponse struct {
	TotalTickets int `json:"total_tickets"`
}

type DrawRaffleRequest struct {
	RaffleID string `json:"raffle_id"`
}

type DrawRaffleResponse struct {
	TotalParticipants int            `json:"total_participants"`
	TotalTickets      int            `json:"total_tickets"`
	Rewards           []RaffleReward `json:"rewards"`
}
