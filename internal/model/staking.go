package model

type Staker struct {
	WalletAddress string `json:"wallet_address"`
	CollectionID  string `json:"collection_id"`
	Points        uint64 `json:"points"`
	HeldNfts      int    `json:"held_nfts"`
	LastClaimedAt string `json:"last_claimed_at,omitempty"`
}

type RegisterStakerRequest struct {
	CollectionID string `json:"collection_id"`
}

type RegisterStakerResponse struct {
	Staker Staker `json:"staker"`
}

type ClaimPointsRequest struct {
	ProjectID string `json:"project_id"`
}

// CollectionClaim reports the outcome of one collection inside a claim.
type CollectionClaim struct {
	CollectionID string `json:"collection_id"`
	Points       uint64 `json:"points"`
	HeldNfts     int    `json:"held_nfts"`
}

type ClaimPointsResponse struct {
	TotalPoints uint64            `json:"total_points"`
	Collections []CollectionClaim `json:"collections"`
}

type GetClaimableRequest struct {
	ProjectID string `json:"project_id"`
}

type ClaimableCollection struct {
	CollectionID string  `json:"collection_id"`
	Points       float64 `json:"points"`
	HeldNfts     int     `json:"held_nfts"`
}

type GetClaimableResponse struct {
	TotalPoints float64               `json:"total_points"`
	Collections []ClaimableCollection `json:"collections"`
}

type AttributeRate struct {
	ID         string  `json:"id"`
	TraitType  string  `json:"trait_type,omitempty"`
	TraitValue string  `json:"trait_value,omitempty"`
	Unit       string  `json:"unit"`
	Rate       float64 `json:"rate"`
}

type CreateAttributeRateRequest struct {
	CollectionID string  `json:"collection_id"`
	TraitType    string  `json:"trait_type"`
	TraitValue   string  `json:"trait_value"`
	Unit         string  `json:"unit"`
	Rate         float64 `json:"rate"`
}

type CreateAttributeRateResponse struct {
	ID string `json:"id"`
}

type GetAttributeRatesRequest struct {
	CollectionID string `json:"collection_id"`
}

type GetAttributeRatesResponse struct {
	Rates []AttributeRate `json:"rates"`
}

type DeleteAttributeRateRequest struct {
	ID string `json:"id"`
}

type DeleteAttributeRateResponse struct{}

type PointLedgerEntry struct {
	ID           int64  `json:"id"`
	CollectionID string `json:"collection_id"`
	Amount       uint64 `json:"amount"`
	HeldNfts     int    `json:"held_nfts"`
	CreatedAt    string `json:"created_at"`
}

type GetPointLedgerRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPointLedgerResponse struct {
	Entries []PointLedgerEntry `json:"entries"`
}
