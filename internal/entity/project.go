package entity

type Project struct {
	Base

	Name      string
	Handle    string `gorm:"unique"`
	CreatedBy string `gorm:"index"`

	Introduction []byte
	WebsiteURL   string
}

// Collection is one NFT contract whose holders accrue points inside a
// project. A project can aggregate several collections.
type Collection struct {
	Base

	ProjectID string  `gorm:"index"`
	Project   Project `gorm:"foreignKey:ProjectID"`

	Chain           string `gorm:"uniqueIndex:idx_collections_chain_contract"`
	ContractAddress string `gorm:"uniqueIndex:idx_collections_chain_contract"`

	Name     string
	ImageUrl string
}
