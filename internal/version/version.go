// Package version compares build versions and looks up the latest tokengate release.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Release lookup defaults.
const (
	DefaultBaseURL = "https://api.github.com"
	DefaultOwner   = "mrz1836"
	DefaultRepo    = "tokengate"
	DefaultTimeout = 10 * time.Second

	devVersion      = "dev"
	maxErrorBody    = 1024
	maxReleaseBody  = 64 * 1024
	semverCoreParts = 3
)

// Errors returned by this package.
var (
	ErrReleaseLookupFailed = errors.New("release lookup failed")
	ErrInvalidRepository   = errors.New("owner/repo contains invalid characters")
)

var repoNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Release is the subset of a GitHub release used for update checks.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	HTMLURL     string    `json:"html_url"`
}

// Info is the result of an update check.
type Info struct {
	Current string `json:"current"`
	Latest  string `json:"latest"`
	URL     string `json:"url,omitempty"`
	IsNewer bool   `json:"update_available"`
}

// Checker looks up releases of one repository.
type Checker struct {
	baseURL    string
	owner      string
	repo       string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Checker.
type Option func(*Checker)

// WithBaseURL points the checker at another API host.
func WithBaseURL(url string) Option {
	return func(c *Checker) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithRepository overrides the repository checked for releases.
func WithRepository(owner, repo string) Option {
	return func(c *Checker) {
		c.owner = owner
		c.repo = repo
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = client
	}
}

// NewChecker creates a release checker for the tokengate repository.
func NewChecker(current string, opts ...Option) *Checker {
	c := &Checker{
		baseURL:    DefaultBaseURL,
		owner:      DefaultOwner,
		repo:       DefaultRepo,
		userAgent:  fmt.Sprintf("tokengate/%s (%s/%s)", Display(current), runtime.GOOS, runtime.GOARCH),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the latest published release.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	if !repoNamePattern.MatchString(c.owner) || !repoNamePattern.MatchString(c.repo) {
		return nil, ErrInvalidRepository
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL is built from the configured releases endpoint
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrReleaseLookupFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var release Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReleaseBody)).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}
	return &release, nil
}

// Check compares current against the latest release.
func (c *Checker) Check(ctx context.Context, current string) (*Info, error) {
	release, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	latest := Normalize(release.TagName)
	return &Info{
		Current: Display(current),
		Latest:  Display(latest),
		URL:     release.HTMLURL,
		IsNewer: IsNewer(current, latest),
	}, nil
}

// Compare returns 1, 0 or -1 as v1 is newer than, equal to or older than v2.
// Development builds and commit hashes sort before every release.
func Compare(v1, v2 string) int {
	v1, v2 = Normalize(v1), Normalize(v2)
	dev1, dev2 := isDevelopment(v1), isDevelopment(v2)
	switch {
	case dev1 && dev2:
		return 0
	case dev1:
		return -1
	case dev2:
		return 1
	}

	p1, p2 := coreParts(v1), coreParts(v2)
	for i := range semverCoreParts {
		if p1[i] != p2[i] {
			if p1[i] > p2[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// IsNewer reports whether latest is newer than current.
func IsNewer(current, latest string) bool {
	return Compare(latest, current) > 0
}

// Normalize trims whitespace, any "v" prefix, and pre-release or build suffixes.
func Normalize(v string) string {
	v = strings.TrimLeft(strings.TrimSpace(v), "v")
	if isCommitHash(v) {
		return v
	}
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}
	return v
}

// Display renders a version for humans: "dev" or a "v"-prefixed release.
func Display(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == devVersion {
		return devVersion
	}
	if isCommitHash(v) || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

func isDevelopment(v string) bool {
	return v == "" || v == devVersion || isCommitHash(v)
}

func coreParts(v string) [semverCoreParts]int {
	var parts [semverCoreParts]int
	for i, field := range strings.SplitN(v, ".", semverCoreParts) {
		n, err := strconv.Atoi(field)
		if err != nil {
			break
		}
		parts[i] = n
	}
	return parts
}

// isCommitHash matches 7-40 hex characters with at least one letter,
// optionally followed by "-dirty".
func isCommitHash(s string) bool {
	s = strings.TrimSuffix(s, "-dirty")
	if len(s) < 7 || len(s) > 40 {
		return false
	}
	hasLetter := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'):
			hasLetter = true
		default:
			return false
		}
	}
	return hasLetter
}
