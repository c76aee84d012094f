// Package update checks GitHub Releases for newer droidcat builds and
// replaces the running binary.
package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	selfupdate "github.com/creativeprojects/go-selfupdate"
)

// Repo is the GitHub slug releases are published under.
const Repo = "justinpbarnett/droidcat"

const (
	checkTimeout = 10 * time.Second
	applyTimeout = 2 * time.Minute
)

// ErrDevBuild is returned when asked to replace a build without a release version.
var ErrDevBuild = errors.New("cannot update a development build, install from a release first")

// Release holds information about an available update.
type Release struct {
	Version      string
	URL          string
	ReleaseNotes string
}

// Checker talks to one GitHub repository.
type Checker struct {
	repo string
}

// New returns a Checker for repo, or for Repo when empty.
func New(repo string) *Checker {
	if repo == "" {
		repo = Repo
	}
	return &Checker{repo: repo}
}

// IsDev reports whether version carries no release number.
func IsDev(version string) bool {
	return version == "" || version == "dev"
}

func (c *Checker) updater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("create github source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}
	return updater, nil
}

// Check returns the latest release when it is newer than current, or nil.
// Development and unparseable versions never report an update.
func (c *Checker) Check(ctx context.Context, current string) (*Release, error) {
	if IsDev(current) {
		return nil, nil
	}
	cv, err := parseSemver(current)
	if err != nil {
		return nil, nil // dirty or hand-built version
	}

	updater, err := c.updater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(c.repo))
	if err != nil {
		return nil, fmt.Errorf("detect latest release: %w", err)
	}
	if !found {
		return nil, nil
	}

	lv, err := semver.NewVersion(latest.Version())
	if err != nil || !lv.GreaterThan(cv) {
		return nil, nil
	}

	return &Release{
		Version:      latest.Version(),
		URL:          latest.URL,
		ReleaseNotes: latest.ReleaseNotes,
	}, nil
}

// Apply downloads the latest release and replaces the current executable.
func (c *Checker) Apply(ctx context.Context, current string) (*Release, error) {
	if IsDev(current) {
		return nil, ErrDevBuild
	}

	updater, err := c.updater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	rel, err := updater.UpdateSelf(ctx, strings.TrimPrefix(current, "v"), selfupdate.ParseSlug(c.repo))
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}

	return &Release{
		Version:      rel.Version(),
		URL:          rel.URL,
		ReleaseNotes: rel.ReleaseNotes,
	}, nil
}

// CompareVersions returns -1, 0 or 1 as current is older than, equal to, or
// newer than latest. Unparseable versions sort before any valid one.
func CompareVersions(current, latest string) int {
	cv, errC := parseSemver(current)
	lv, errL := parseSemver(latest)

	switch {
	case errC != nil && errL != nil:
		return 0
	case errC != nil:
		return -1
	case errL != nil:
		return 1
	}
	return cv.Compare(lv)
}

// parseSemver strips a leading "v". Git-describe suffixes such as
// "0.1.0-3-gabcdef" parse as prereleases.
func parseSemver(s string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(s, "v"))
}
