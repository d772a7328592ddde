package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env          string
	Port         string
	RedisURL     string
	DatabaseURL  string
	StoreBackend string // "redis", "postgres" or "memory"

	HederaNetwork    string // testnet | mainnet | previewnet
	HederaAccountID  string // treasury/operator account, pays for mints and transfers
	HederaPrivateKey string
	DatasetTokenID   string // pre-created NFT collection token
	MirrorBaseURL    string

	TreasuryAccount          string  // default seller for synchronized listings
	DefaultListingPrice      float64 // HBAR price for auto-synchronized listings
	AllowUnconfirmedPurchase bool    // record purchases as completed even without a confirmed transfer

	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "production" && viper.GetString("DATABASE_URL_PROD") != "" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	redisURL := viper.GetString("REDIS_URL")

	backend := strings.ToLower(viper.GetString("STORE_BACKEND"))
	if backend == "" {
		switch {
		case redisURL != "":
			backend = "redis"
		case dbURL != "":
			backend = "postgres"
		default:
			backend = "memory"
		}
	}

	network := viper.GetString("HEDERA_NETWORK")
	if network == "" {
		network = "testnet"
	}

	treasury := viper.GetString("TREASURY_ACCOUNT")
	if treasury == "" {
		treasury = "0.0.6990992"
	}

	price := viper.GetFloat64("DEFAULT_LISTING_PRICE")
	if price == 0 {
		price = 2.5
	}

	mirror := viper.GetString("MIRROR_BASE_URL")
	if mirror == "" {
		if network == "mainnet" {
			mirror = "https://mainnet-public.mirrornode.hedera.com"
		} else {
			mirror = "https://" + network + ".mirrornode.hedera.com"
		}
	}

	return &Config{
		Env:          env,
		Port:         port,
		RedisURL:     redisURL,
		DatabaseURL:  dbURL,
		StoreBackend: backend,

		HederaNetwork:    network,
		HederaAccountID:  viper.GetString("HEDERA_ACCOUNT_ID"),
		HederaPrivateKey: viper.GetString("HEDERA_PRIVATE_KEY"),
		DatasetTokenID:   viper.GetString("DATASET_TOKEN_ID"),
		MirrorBaseURL:    mirror,

		TreasuryAccount:          treasury,
		DefaultListingPrice:      price,
		AllowUnconfirmedPurchase: strings.EqualFold(viper.GetString("ALLOW_UNCONFIRMED_PURCHASE"), "true"),

		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}
