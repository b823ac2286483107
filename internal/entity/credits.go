package entity

// Credits is the turn credit ledger. Both counters only grow.
type Credits struct {
	Purchased uint `json:"purchased"`
	Used      uint `json:"used"`
}

func (that *Credits) Remaining() uint {
	if that.Used >= that.Purchased {
		return 0
	}

	return that.Purchased - that.Used
}

func (that *Credits) AddPurchased(n uint) {
	that.Purchased += n
}

// Consume records one finished round.
func (that *Credits) Consume() {
	that.Used++
}
