package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	versionpkg "github.com/mrz1836/tokengate/internal/version"
)

// versionCheckTimeout bounds the release lookup.
const versionCheckTimeout = 15 * time.Second

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

var (
	buildInfo    BuildInfo
	versionCheck bool

	// releaseChecker looks up the latest release. Replaced in tests.
	releaseChecker = func(current string) *versionpkg.Checker {
		return versionpkg.NewChecker(current)
	}
)

// SetBuildInfo records the values injected by the linker.
func SetBuildInfo(version, commit, date string) {
	buildInfo = BuildInfo{Version: version, Commit: commit, Date: date}
}

// formatVersion renders build information on one line.
func formatVersion(info BuildInfo) string {
	commit, date := info.Commit, info.Date
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", versionpkg.Display(info.Version), commit, date)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information. With --check, also look up the latest release.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !versionCheck {
			if formatter.IsJSON() {
				return formatter.Print(buildInfo)
			}
			return formatter.Println("tokengate " + formatVersion(buildInfo))
		}

		ctx, cancel := contextWithTimeout(cmd, versionCheckTimeout)
		defer cancel()

		info, err := releaseChecker(buildInfo.Version).Check(ctx, buildInfo.Version)
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
		if formatter.IsJSON() {
			return formatter.Print(info)
		}

		if err = formatter.Println("tokengate " + formatVersion(buildInfo)); err != nil {
			return err
		}
		if info.IsNewer {
			messenger.Warnf("A newer version is available: %s -> %s %s", info.Current, info.Latest, info.URL)
			return nil
		}
		messenger.Successf("You are on the latest version (%s)", info.Latest)
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
