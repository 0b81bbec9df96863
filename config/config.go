package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	LogLevel          string `env:"LOG_LEVEL"`
	Telegram          Telegram
	Redis             Redis
	API               API
	Cache             Cache
	Jobs              Jobs
	Analysis          Analysis
	Gemini            Gemini
	GoogleDrive       GoogleDrive
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION"`
}

type Telegram struct {
	Token            string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout       time.Duration `env:"TELEGRAM_UPD_TIMEOUT"`
	FileLimitInBytes int           `env:"TELEGRAM_FILE_LIMIT_IN_BYTES"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type API struct {
	Debug     bool          `env:"API_DEBUG"`
	Timeout   time.Duration `env:"API_TIMEOUT"`
	SecApi    SecApi
	MarketApi MarketApi
}

type SecApi struct {
	Url       string `env:"SEC_API_URL"`
	UserAgent string `env:"SEC_API_USER_AGENT"`
}

type MarketApi struct {
	Url string `env:"MARKET_API_URL"`
}

type Cache struct {
	RegistryExpiration time.Duration `env:"CACHE_REGISTRY_EXPIRATION"`
	QuoteExpiration    time.Duration `env:"CACHE_QUOTE_EXPIRATION"`
}

type Jobs struct {
	RefreshRegistryInterval time.Duration `env:"REFRESH_REGISTRY_JOB_INTERVAL"`
	DriveCleanupCrontab     string        `env:"DRIVE_CLEANUP_CRONTAB" envDefault:"0 0 3 * * *"`
}

// Analysis carries the business assumptions behind the savings estimate and
// the holder classification. These are the most consequential numbers in the
// system, so they live here rather than as inline literals.
type Analysis struct {
	// SpreadBps is the assumed prime-broker borrow/lend spread in basis
	// points; 200 = 2.00%, typical for hard-to-borrow names.
	SpreadBps int64 `env:"ANALYSIS_SPREAD_BPS" envDefault:"200"`
	// DayCount is the money-market day-count convention for the daily figure.
	DayCount int64 `env:"ANALYSIS_DAY_COUNT" envDefault:"360"`
	// FallbackPrice substitutes for the live quote when the quote source is
	// down. Estimates built on it are flagged to the user.
	FallbackPrice decimal.Decimal `env:"ANALYSIS_FALLBACK_PRICE" envDefault:"10.00"`
	// DirectKeywords marks tier-1 holders (direct lenders: pensions,
	// endowments). Checked before AggregatorKeywords.
	DirectKeywords []string `env:"ANALYSIS_DIRECT_KEYWORDS" envSeparator:"," envDefault:"PENSION,RETIREMENT,TEACHERS,SYSTEM,TRUST,UNIVERSITY,ENDOWMENT,BOARD,STATE OF,FOUNDATION"`
	// AggregatorKeywords marks tier-2 holders (passive asset aggregators).
	AggregatorKeywords []string `env:"ANALYSIS_AGGREGATOR_KEYWORDS" envSeparator:"," envDefault:"VANGUARD,BLACKROCK,STATE STREET,FIDELITY,CAPITAL GROUP"`
	// HoldersInMemo limits how many top-ranked counterparties go into the
	// deal-memo prompt and the chat reply.
	HoldersInMemo int `env:"ANALYSIS_HOLDERS_IN_MEMO" envDefault:"10"`
}

type Gemini struct {
	Model string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
