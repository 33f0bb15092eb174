package model

type WalletStanding struct {
	WalletAddress string `json:"wallet_address"`
	TotalPoints   uint64 `json:"total_points"`
	TotalHeldNfts int    `json:"total_held_nfts"`
	CurrentRank   int    `json:"current_rank"`
}

type GetLeaderboardRequest struct {
	// ProjectID scopes the board; empty requests the global one.
	ProjectID string `json:"project_id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Standings []WalletStanding `json:"standings"`
}

type GetRankRequest struct {
	ProjectID     string `json:"project_id"`
	WalletAddress string `json:"wallet_address"`
}

type GetRankResponse struct {
	Standing WalletStanding `json:"standing"`
}
