package memstore

// Store собирает все хранилища вместе, как одна база.
type Store struct {
	Deals    *DealStore
	Prices   *PriceHistoryStore
	Posts    *PostStore
	Runs     *ScanRunStore
	Settings *SettingsStore
}

func New() *Store {
	return &Store{
		Deals:    NewDealStore(),
		Prices:   NewPriceHistoryStore(),
		Posts:    NewPostStore(),
		Runs:     NewScanRunStore(),
		Settings: NewSettingsStore(),
	}
}
