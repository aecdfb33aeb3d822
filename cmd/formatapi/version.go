package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/formatapi/internal/cli"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// AppVersion is set at build time with -ldflags "-X main.AppVersion=...".
var AppVersion = "v0.0.0"

// releasesURL is the GitHub endpoint for the latest release.
var releasesURL = "https://api.github.com/repos/nulzo/formatapi/releases/latest"

type GitHubRelease struct {
	TagName string `json:"tag_name"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "formatapi %s\n", AppVersion)

		if check, _ := cmd.Flags().GetBool("check"); !check {
			return nil
		}
		latest, newer, err := CheckForUpdates(cmd.Context(), &http.Client{Timeout: 2 * time.Second}, AppVersion)
		if err != nil {
			return err
		}
		printUpdateNotice(out, latest, newer)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

// CheckForUpdates returns the latest released tag and whether it is newer
// than current.
func CheckForUpdates(ctx context.Context, client *http.Client, current string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", false, eris.Wrap(err, "build release request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", false, eris.Wrap(err, "fetch latest release")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", false, eris.Errorf("fetch latest release: status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", false, eris.Wrap(err, "decode release")
	}

	cur, err := version.NewVersion(current)
	if err != nil {
		return "", false, eris.Wrapf(err, "parse current version %q", current)
	}
	latest, err := version.NewVersion(release.TagName)
	if err != nil {
		return "", false, eris.Wrapf(err, "parse release tag %q", release.TagName)
	}

	return release.TagName, cur.LessThan(latest), nil
}

func printUpdateNotice(w io.Writer, latest string, newer bool) {
	if !newer {
		fmt.Fprintf(w, "%s Up to date\n", cli.CheckMark())
		return
	}
	fmt.Fprintln(w, "---------------------------------------------------------")
	fmt.Fprintf(w, "%s  You are running an outdated version (%s).\n", cli.Style("WARNING:", cli.Yellow), AppVersion)
	fmt.Fprintf(w, "   The latest version is %s.\n", latest)
	fmt.Fprintln(w, "   Download it from https://github.com/nulzo/formatapi/releases")
	fmt.Fprintln(w, "---------------------------------------------------------")
}
