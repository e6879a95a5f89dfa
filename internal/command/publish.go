// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/edgestack/internal/assets"
	awsutil "github.com/tfctl/edgestack/internal/aws"
	"github.com/tfctl/edgestack/internal/config"
	"github.com/tfctl/edgestack/internal/log"
	"github.com/tfctl/edgestack/internal/meta"
	"github.com/tfctl/edgestack/internal/publish"
	"github.com/tfctl/edgestack/internal/stack"
	"github.com/tfctl/edgestack/internal/stackinfo"
)

// ErrNotConfirmed is returned when the user declines, or cannot be asked, to
// publish.
var ErrNotConfirmed = errors.New("publish not confirmed, use --yes to skip the prompt")

// newPublisher builds the uploader. Tests replace it with fakes.
var newPublisher = func(cfg awsv2.Config) *publish.Publisher {
	return &publish.Publisher{
		S3:         awsutil.NewS3(cfg),
		CloudFront: awsutil.NewCloudFront(cfg),
	}
}

// adaptiveRetryer rate limits client side when S3 starts throttling a large
// upload.
func adaptiveRetryer() awsv2.Retryer {
	return retry.NewAdaptiveMode()
}

// stdin is where the confirmation prompt reads from.
var stdin io.Reader = os.Stdin

// isTerminal reports whether the confirmation prompt can be shown.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// publishCommandAction uploads the OpenNext assets into the stack's bucket
// and invalidates its distribution. Targets not given by flags are read from
// the deployed stack's outputs.
func publishCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	if ShortCircuitTLDR(ctx, cmd, "publish") {
		return nil
	}

	config.Config.Namespace = "publish"

	opts := publish.Options{
		Dir:            filepath.Join(projectPath(cmd, cmd.String("build-dir")), assets.AssetsDir),
		Bucket:         cmd.String("bucket"),
		DistributionID: cmd.String("distribution-id"),
		Concurrency:    cmd.Int("concurrency"),
		DryRun:         cmd.Bool("dry-run"),
	}

	cfg, err := loadAWSConfig(ctx, cmd, awsutil.WithRetryer(adaptiveRetryer))
	if err != nil {
		return fmt.Errorf("failed to load aws config: %w", err)
	}

	if opts.Bucket == "" || (opts.DistributionID == "" && !cmd.Bool("no-invalidate")) {
		s, err := stackinfo.Describe(ctx, newStackDescriber(cfg), stackName(cmd))
		if err != nil {
			return err
		}
		if opts.Bucket == "" {
			if opts.Bucket, err = s.Output(stack.OutputBucketName); err != nil {
				return err
			}
		}
		if opts.DistributionID == "" && !cmd.Bool("no-invalidate") {
			if opts.DistributionID, err = s.Output(stack.OutputDistributionID); err != nil {
				return err
			}
		}
	}
	if cmd.Bool("no-invalidate") {
		opts.DistributionID = ""
	}

	if !opts.DryRun && !cmd.Bool("yes") {
		objects, err := publish.Plan(opts.Dir)
		if err != nil {
			return err
		}
		var size int64
		for _, o := range objects {
			size += o.Size
		}
		prompt := fmt.Sprintf("Publish %d objects (%s) to s3://%s", len(objects), humanize.Bytes(uint64(size)), opts.Bucket)
		if opts.DistributionID != "" {
			prompt += " and invalidate " + opts.DistributionID
		}
		if !confirm(prompt) {
			return ErrNotConfirmed
		}
	}

	result, err := newPublisher(cfg).Publish(ctx, opts)
	if err != nil {
		return err
	}

	if opts.DryRun {
		for _, o := range result.Objects {
			fmt.Fprintf(stdout, "%-10s %8s %s\n", o.Class, humanize.Bytes(uint64(o.Size)), o.Key)
		}
	}
	fmt.Fprintln(stdout, result)
	return nil
}

// confirm asks a yes/no question on the terminal. It returns false when
// stdin is not a terminal.
func confirm(prompt string) bool {
	if !isTerminal() {
		return false
	}
	fmt.Fprintf(stdout, "%s? [y/N] ", prompt)
	answer, _ := bufio.NewReader(stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// publishCommandBuilder constructs the cli.Command for "publish", wiring
// metadata, flags, and action handlers.
func publishCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "upload the static assets and invalidate the distribution",
		UsageText: "edgestack publish [ProjectDir[::stage]] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewBuildDirFlag("publish", meta.Config.Source),
			NewStackNameFlag("publish", meta.Config.Source),
			NewRegionFlag("publish", meta.Config.Source),
			NewProfileFlag("publish", meta.Config.Source),
			&cli.StringFlag{
				Name:  "bucket",
				Usage: "target bucket. Defaults to the stack's BucketName output",
			},
			&cli.StringFlag{
				Name:  "distribution-id",
				Usage: "distribution to invalidate. Defaults to the stack's DistributionId output",
			},
			&cli.BoolFlag{
				Name:  "no-invalidate",
				Usage: "skip the distribution invalidation",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "number of parallel uploads",
				Value: publish.DefaultConcurrency,
				Validator: func(value int) error {
					return FlagValidators(value, ConcurrencyValidator)
				},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "list what would be uploaded without uploading",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "do not ask for confirmation",
			},
			tldrFlag,
		},
		Action: publishCommandAction,
	}
}
