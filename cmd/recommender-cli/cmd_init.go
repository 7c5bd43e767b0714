package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/recommender/client"
)

func newInitCmd() *cobra.Command {
	var initURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up recommender-cli configuration",
		Long:  "Interactive setup that writes a profile to ~/.recommender/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := flagProfile
			if profile == "" {
				profile = "default"
			}
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), initURL, profile, initURL != "")
		},
	}

	cmd.Flags().StringVar(&initURL, "url", "", "Server URL (non-interactive mode)")
	return cmd
}

func runInit(in io.Reader, out io.Writer, url, profile string, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Fprintln(out, "\n  Recommender Setup")
		fmt.Fprintln(out, "  -----------------")
		fmt.Fprintf(out, "\n  Server URL [%s]: ", defaultURL)

		line, _ := bufio.NewReader(in).ReadString('\n')
		url = strings.TrimSpace(line)
	}

	if url == "" {
		url = defaultURL
	}
	url = strings.TrimRight(url, "/")

	ver, err := testConnection(url)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	if !nonInteractive {
		fmt.Fprintf(out, "  Connected (%s)\n", ver)
	}

	cfgPath, err := saveProfile(profile, url)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "Config saved to %s (profile %q)\n", cfgPath, profile)
	if !nonInteractive {
		fmt.Fprintln(out, "\n  Next steps:")
		fmt.Fprintln(out, "    recommender-cli doctor              # Full diagnostic check")
		fmt.Fprintln(out, "    recommender-cli recommend --name shoe")
	}

	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if h.Version == "" {
		return "unknown", nil
	}
	return h.Version, nil
}
