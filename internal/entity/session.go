package entity

const (
	StatusAwaitingHuman    = "awaiting_human"
	StatusAwaitingOpponent = "awaiting_opponent"
	StatusGameOver         = "game_over"
)

const (
	BannerHumanWins    = "You Win!"
	BannerOpponentWins = "Bot Wins!"
	BannerDraw         = "Draw!"
	BannerPurchase     = "Please Purchase to Play"
)

// SessionState is the snapshot of a game session as seen by the client and the snapshot store.
type SessionState struct {
	ID       string     `json:"id"`
	Board    Board      `json:"board"`
	Turn     Marker     `json:"turn"`
	Status   string     `json:"status"`
	Win      *WinResult `json:"win,omitempty"`
	Draw     bool       `json:"draw,omitempty"`
	Credits  Credits    `json:"credits"`
	Eligible bool       `json:"eligible"`
	Account  *Account   `json:"account,omitempty"`
	Network  string     `json:"network"`
	Round    uint64     `json:"round"`
	Version  uint64     `json:"version"`

	// a broadcast purchase whose receipt has not been seen yet
	PendingPurchase *Receipt `json:"pending_purchase,omitempty"`

	// derived, filled by Derive
	Remaining uint   `json:"remaining"`
	CanAct    bool   `json:"can_act"`
	Banner    string `json:"banner,omitempty"`
}

func (that *SessionState) IsGameOver() bool {
	return that.Status == StatusGameOver
}

// Derive recomputes the fields that are functions of the rest of the state.
func (that *SessionState) Derive() {
	that.Remaining = that.Credits.Remaining()
	that.CanAct = that.Eligible &&
		that.Remaining > 0 &&
		that.Win == nil &&
		that.Status == StatusAwaitingHuman &&
		that.Turn == MarkerHuman

	switch {
	case that.Win != nil && that.Win.Winner == MarkerHuman:
		that.Banner = BannerHumanWins
	case that.Win != nil:
		that.Banner = BannerOpponentWins
	case that.Draw:
		that.Banner = BannerDraw
	case that.Remaining == 0:
		that.Banner = BannerPurchase
	default:
		that.Banner = ""
	}
}
