// Package update checks GitHub Releases for newer qmon builds and replaces
// the running binary in place.
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

const (
	CheckTimeout = 10 * time.Second
	ApplyTimeout = 2 * time.Minute
)

// ErrDevBuild is returned by Apply for builds without a release version.
var ErrDevBuild = errors.New("cannot update a development build, install from a release first")

// Release describes a published build.
type Release struct {
	Version      string
	URL          string
	ReleaseNotes string
}

// IsDev reports whether version carries no release information.
func IsDev(version string) bool {
	return version == "" || version == "dev"
}

// Check returns the latest release of repo when it is newer than current.
// Development builds and versions that do not parse are never updated, so
// both yield a nil release and no error.
func Check(ctx context.Context, current, repo string) (*Release, error) {
	if IsDev(current) {
		return nil, nil
	}
	cur, err := parseSemver(current)
	if err != nil {
		return nil, nil
	}

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return nil, fmt.Errorf("detect latest release of %s: %w", repo, err)
	}
	if !found {
		return nil, nil
	}
	lv, err := semver.NewVersion(latest.Version())
	if err != nil || !lv.GreaterThan(cur) {
		return nil, nil
	}
	return &Release{
		Version:      latest.Version(),
		URL:          latest.URL,
		ReleaseNotes: latest.ReleaseNotes,
	}, nil
}

// Apply downloads the latest release of repo and swaps it in for the
// current executable. The returned release is the one now installed.
func Apply(ctx context.Context, current, repo string) (*Release, error) {
	if IsDev(current) {
		return nil, ErrDevBuild
	}

	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, ApplyTimeout)
	defer cancel()

	rel, err := updater.UpdateSelf(ctx, strings.TrimPrefix(current, "v"), selfupdate.ParseSlug(repo))
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return &Release{
		Version:      rel.Version(),
		URL:          rel.URL,
		ReleaseNotes: rel.ReleaseNotes,
	}, nil
}

func newUpdater() (*selfupdate.Updater, error) {
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

// CompareVersions orders two version strings the way semver.Compare does.
// A version that does not parse sorts below any that does.
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

// parseSemver accepts an optional "v" prefix. git-describe suffixes such as
// "0.1.0-3-gabcdef" parse as prereleases of the base version.
func parseSemver(s string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(s, "v"))
}
