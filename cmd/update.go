package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/skilltrace/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update skilltrace to a newer release",
	Long: "Update downloads the release asset for this platform, verifies it " +
		"against the release checksums, and replaces the running binary. " +
		"With --check it only reports whether a newer release exists.",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		targetTag, _ := cmd.Flags().GetString("tag")

		u := selfupdate.New(selfupdate.WithTimeout(2 * time.Minute))
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		if checkOnly {
			rel, newer, err := u.Check(ctx, version)
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if !newer {
				fmt.Println("Already running the latest version.")
				return nil
			}
			fmt.Printf("%s is available (running %s): %s\n", rel.Tag, version, rel.URL)
			return nil
		}

		err := u.Apply(ctx, version, targetTag, func(stage selfupdate.Stage, detail string) {
			switch stage {
			case selfupdate.StageResolve:
				fmt.Println("Resolving release...")
			case selfupdate.StageDownload:
				fmt.Printf("Downloading %s...\n", detail)
			case selfupdate.StageVerify:
				fmt.Println("Verifying checksum...")
			case selfupdate.StageApply:
				fmt.Printf("Replacing %s...\n", detail)
			case selfupdate.StageDone:
				fmt.Printf("Updated to %s.\n", detail)
			}
		})

		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("This is a development build; install a release build to use update.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Println("Already running the latest version.")
			return nil
		case os.IsPermission(err):
			return fmt.Errorf("%w\n\nTry running: sudo skilltrace update", err)
		default:
			return err
		}
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only check whether a newer release exists")
	updateCmd.Flags().String("tag", "", "Update to a specific release tag instead of the latest")
}
