package entity

type Mode string

const (
	ModeManual Mode = "MANUAL"
	ModeAuto   Mode = "AUTO"
)

type WhatsAppProvider string

const (
	WhatsAppProviderDraft WhatsAppProvider = "draft"
	WhatsAppProviderCloud WhatsAppProvider = "cloud"
)

// Settings - единый документ настроек, читается целиком один раз за тик.
type Settings struct {
	Mode               Mode     `json:"mode"                 validate:"oneof=MANUAL AUTO"`
	ApprovalThreshold  int      `json:"approval_threshold"   validate:"gte=0,lte=100"`
	CategoriesAllowed  []string `json:"categories_allowed"`
	BlockedWords       []string `json:"blocked_words"`
	PriceMin           float64  `json:"price_min"            validate:"gte=0"`
	PriceMax           float64  `json:"price_max"            validate:"gtefield=PriceMin"`
	MinDiscountPercent float64  `json:"min_discount_percent" validate:"gte=0,lte=100"`
	// CooldownDays хранится, но пока ничего не ограничивает.
	CooldownDays       int      `json:"cooldown_days"        validate:"gte=0"`
	DailyPostLimit     int      `json:"daily_post_limit"     validate:"gte=0"`
	SeedKeywords       []string `json:"seed_keywords"`
	SeedCategories     []string `json:"seed_categories"`
	ReputationPositive []string `json:"reputation_positive"`
	ReputationNegative []string `json:"reputation_negative"`

	MercadoLivre MercadoLivreSettings `json:"mercadolivre"`
	Amazon       AmazonSettings       `json:"amazon"`
	Telegram     TelegramSettings     `json:"telegram"`
	WhatsApp     WhatsAppSettings     `json:"whatsapp"`
}

type MercadoLivreSettings struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

type AmazonSettings struct {
	PAAPIAccessKey string   `json:"pa_api_access_key"`
	PAAPISecret    string   `json:"pa_api_secret"`
	PartnerTag     string   `json:"partner_tag"`
	Region         string   `json:"region"`
	ManualLinks    []string `json:"manual_links"`
}

type TelegramSettings struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

func (t TelegramSettings) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type WhatsAppSettings struct {
	Provider      WhatsAppProvider `json:"provider"        validate:"omitempty,oneof=draft cloud"`
	PhoneNumberID string           `json:"phone_number_id"`
	Token         string           `json:"token"`
	ToNumbers     []string         `json:"to_numbers"`
}

// DefaultSettings - значения, с которыми сервис стартует на пустой базе.
func DefaultSettings() Settings {
	return Settings{
		Mode:               ModeManual,
		ApprovalThreshold:  70,
		CategoriesAllowed:  []string{"gamer", "moda", "casa"},
		BlockedWords:       []string{"réplica", "usado", "seminovo"},
		PriceMin:           10,
		PriceMax:           15000,
		MinDiscountPercent: 20,
		CooldownDays:       7,
		DailyPostLimit:     15,
		SeedKeywords:       []string{"RTX 5060", "Tênis New Balance"},
		SeedCategories:     []string{},
		ReputationPositive: []string{"green", "5", "high"},
		ReputationNegative: []string{"low", "red"},
		Amazon: AmazonSettings{
			Region:      "BR",
			ManualLinks: []string{},
		},
		WhatsApp: WhatsAppSettings{
			Provider:  WhatsAppProviderDraft,
			ToNumbers: []string{},
		},
	}
}

// InPriceRange - фильтр по цене с включёнными границами. Нулевая цена
// (неизвестна) фильтр проходит, отрицательная проверяется как обычная.
func (s Settings) InPriceRange(price float64) bool {
	if price == 0 {
		return true
	}

	return price >= s.PriceMin && price <= s.PriceMax
}
