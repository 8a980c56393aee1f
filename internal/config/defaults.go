package config

// DefaultRPCURL is the default Solana RPC endpoint (public devnet).
const DefaultRPCURL = "https://api.devnet.solana.com"

// Ledger defaults.
const (
	DefaultRequiredBalance = 10000
	DefaultTokenDecimals   = 6
	DefaultCommitment      = "confirmed"
)

// DefaultKeypairPath is where the Solana CLI writes its default keypair.
const DefaultKeypairPath = "~/.config/solana/id.json"

// DefaultRedisChannel is the pub/sub channel the authorization service listens on.
const DefaultRedisChannel = "tokengate:builder"

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.tokengate",
		Ledger: LedgerConfig{
			RPC:               DefaultRPCURL,
			Commitment:        DefaultCommitment,
			TokenMint:         "",
			RequiredBalance:   DefaultRequiredBalance,
			TokenDecimals:     DefaultTokenDecimals,
			RequestsPerSecond: 5,
			Burst:             10,
			TimeoutSeconds:    15,
		},
		Wallet: WalletConfig{
			Provider:    ProviderKeypair,
			KeypairPath: DefaultKeypairPath,
		},
		Auth: AuthConfig{
			Transport:      TransportNone,
			RedisChannel:   DefaultRedisChannel,
			TimeoutSeconds: 5,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.tokengate/tokengate.log",
		},
	}
}
