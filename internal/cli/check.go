package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tokengate/internal/chain/solana"
	"github.com/mrz1836/tokengate/internal/notify"
	"github.com/mrz1836/tokengate/internal/output"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// checkTimeout bounds a whole check, covering provider connect and the RPC lookup.
const checkTimeout = 45 * time.Second

var (
	checkNotify    bool
	checkFailBelow bool
)

// CheckResult is the outcome of one threshold evaluation.
type CheckResult struct {
	Address   string  `json:"address"`
	TokenMint string  `json:"token_mint"`
	Balance   float64 `json:"balance"`
	Required  float64 `json:"required"`
	HasAccess bool    `json:"has_access"`
	Notified  bool    `json:"notified"`
}

var checkCmd = &cobra.Command{
	Use:   "check [address]",
	Short: "Check a wallet's gating token balance",
	Long: `Check reads the gating token balance of a wallet and compares it with the
required amount.

With an address argument the balance of that address is read directly and no
wallet is connected. Without one, the configured wallet provider is connected
first. --notify sends the builder access request for a connected wallet that
meets the threshold.`,
	Example: `  tokengate check 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin
  tokengate check --notify
  tokengate check --fail-below -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	address := ""
	if len(args) == 1 {
		address = strings.TrimSpace(args[0])
		if _, err := solana.ParseAddress(address); err != nil {
			return err
		}
		if checkNotify {
			return gateerr.WithSuggestion(
				gateerr.WithDetails(gateerr.ErrInvalidInput, map[string]string{"flag": "--notify"}),
				"--notify needs a connected wallet; omit the address argument",
			)
		}
	}

	st, err := buildStack(cfg, logger, stackOptions{
		Toaster: notify.NewWriterToaster(stderr),
		Notify:  checkNotify,
	})
	if err != nil {
		return err
	}
	defer st.Close()
	sess := st.session

	ctx, cancel := contextWithTimeout(cmd, checkTimeout)
	defer cancel()

	result := CheckResult{
		TokenMint: cfg.Ledger.TokenMint,
		Required:  sess.RequiredBalance(),
	}

	if address != "" {
		result.Address = address
		result.Balance = sess.FetchBalance(ctx, address)
		result.HasAccess = result.Balance >= result.Required
	} else {
		if !sess.HasProvider() {
			return gateerr.WithSuggestion(gateerr.ErrProviderUnavailable,
				"pass an address, or configure wallet.provider (tokengate config show)")
		}
		if _, err = sess.Connect(ctx); err != nil {
			return err
		}
		state := sess.State()
		result.Address = state.Address
		result.Balance = state.Balance
		result.HasAccess = state.HasAccess
		result.Notified = checkNotify && state.HasAccess && sendsAccessChanges(cfg.Auth)
	}

	if result.TokenMint == "" {
		messenger.Warn("no token mint configured; every balance reads as 0")
	}

	if err = writeCheckResult(formatter, result); err != nil {
		return err
	}

	if checkFailBelow && !result.HasAccess {
		return gateerr.WithDetails(gateerr.ErrPermission, map[string]string{
			"balance":  notify.FormatAmount(result.Balance),
			"required": notify.FormatAmount(result.Required),
		})
	}
	return nil
}

func writeCheckResult(f *output.Formatter, r CheckResult) error {
	if f.IsJSON() {
		return f.Print(r)
	}

	mint := r.TokenMint
	if mint == "" {
		mint = "(not configured)"
	}
	access := "denied"
	if r.HasAccess {
		access = "granted"
	}

	t := output.NewKeyValueTable()
	t.AddPair("Address", r.Address)
	t.AddPair("Token mint", mint)
	t.AddPair("Balance", notify.FormatAmount(r.Balance))
	t.AddPair("Required", notify.FormatAmount(r.Required))
	t.AddPair("Access", access)
	if r.Notified {
		t.AddPair("Notified", "builder access requested")
	}
	if err := t.Render(f.Writer()); err != nil {
		return fmt.Errorf("render check result: %w", err)
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	checkCmd.Flags().BoolVar(&checkNotify, "notify", false, "send the builder access request when the threshold is met")
	checkCmd.Flags().BoolVar(&checkFailBelow, "fail-below", false, "exit with code 5 when the balance is below the threshold")
	rootCmd.AddCommand(checkCmd)
}
