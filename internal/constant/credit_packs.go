package constant

// CreditPack is a purchasable bundle. Prices are in the smallest currency unit.
type CreditPack struct {
	Id            string
	Name          string
	PriceCents    int64
	Currency      string
	Credits       int
	PromptCredits int
	// Midtrans charges in IDR without minor units.
	PriceIDR int64
}

const PurchaseTypeCredits = "credits"

var creditPacks = []CreditPack{
	{Id: "starter", Name: "Starter", PriceCents: 500, Currency: "usd", Credits: 50, PromptCredits: 10, PriceIDR: 79000},
	{Id: "creator", Name: "Creator", PriceCents: 1500, Currency: "usd", Credits: 200, PromptCredits: 50, PriceIDR: 239000},
	{Id: "studio", Name: "Studio", PriceCents: 4000, Currency: "usd", Credits: 600, PromptCredits: 200, PriceIDR: 629000},
}

func CreditPacks() []CreditPack {
	out := make([]CreditPack, len(creditPacks))
	copy(out, creditPacks)
	return out
}

func FindCreditPack(id string) (CreditPack, bool) {
	for _, p := range creditPacks {
		if p.Id == id {
			return p, true
		}
	}
	return CreditPack{}, false
}
