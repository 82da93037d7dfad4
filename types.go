package meetup

// TokenPair is the sole durable state of the tool: a short-lived access token
// and an optional refresh token. It is overwritten wholesale on every refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is the body returned by the authorization endpoint for all
// three grant types. Fields beyond the token pair are informational; no local
// expiry bookkeeping is derived from ExpiresIn (validity is re-checked with a
// live probe instead).
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

func (tr *TokenResponse) pair() *TokenPair {
	return &TokenPair{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
	}
}
