package model

// AccessToken is the object embedded in the signed bearer token.
type AccessToken struct {
	WalletAddress string `json:"wallet_address"`
}

type WalletLoginRequest struct {
	Address string `json:"address"`
}

type WalletLoginResponse struct {
	Address string `json:"address"`
	Nonce   string `json:"nonce"`

	// NonceToken carries the challenge back on verify, so the server stays
	// stateless between the two calls.
	NonceToken string `json:"nonce_token"`
}

type WalletVerifyRequest struct {
	NonceToken string `json:"nonce_token"`
	Signature  string `json:"signature"`
}

type WalletVerifyResponse struct {
	AccessToken string `json:"access_token"`
}
