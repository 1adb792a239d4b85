package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/host"
	"github.com/GriffinCanCode/ShareBridge/internal/pipeline"
	"github.com/GriffinCanCode/ShareBridge/internal/settings"
	"github.com/GriffinCanCode/ShareBridge/internal/share"
)

// Exit codes of the share command, one per failure family.
const (
	exitInput       = 2 // classification, extraction, decode
	exitCredentials = 3
	exitUpload      = 4
	exitDelivery    = 5
)

type shareOptions struct {
	title   string
	url     string
	text    string
	files   []string
	timeout time.Duration
	json    bool
}

func newShareCmd(a *app) *cobra.Command {
	opts := &shareOptions{}

	cmd := &cobra.Command{
		Use:   "share [file...]",
		Short: "Share a link, text or image",
		Long: `Share classifies what it is given, images first, then links, then text.
Positional arguments are files. Use --text - to read text from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			return runShare(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "display title of the shared content")
	cmd.Flags().StringVar(&opts.url, "url", "", "shared URL")
	cmd.Flags().StringVar(&opts.text, "text", "", "shared text, or - for stdin")
	cmd.Flags().StringSliceVar(&opts.files, "file", nil, "file to share (repeatable)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "give up after this long (0 waits indefinitely)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the result as JSON to stdout")
	return cmd
}

func runShare(cmd *cobra.Command, a *app, opts *shareOptions) error {
	payload, err := opts.payload(cmd.InOrStdin())
	if err != nil {
		return err
	}

	store, err := settings.Open(a.cfg.Share.ResolveStorePath())
	if err != nil {
		return err
	}

	p, err := a.newPipeline(a.newUploader())
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	desktop := host.NewDesktop(host.DesktopOptions{
		FallbackCommand: a.cfg.Share.FallbackCommand,
		PrintFallback:   a.cfg.Share.PrintFallback && !opts.json,
		Out:             cmd.OutOrStdout(),
		Logger:          a.logger.Named("host"),
		OpenURL:         a.openURL,
	})

	res := p.Run(ctx, desktop, store, payload)
	<-desktop.Done()

	if opts.json {
		if err := writeResult(cmd.OutOrStdout(), res); err != nil {
			a.logger.Error("failed to write result", zap.Error(err))
		}
	}
	if res.Err == nil {
		return nil
	}
	return &exitError{code: exitCode(res.Err), err: res.Err}
}

// payload maps flags onto a share payload. The title becomes the content
// text, every other input an attachment.
func (o *shareOptions) payload(stdin io.Reader) (share.Payload, error) {
	payload := share.Payload{ContentText: o.title}

	if o.url != "" {
		payload.Attachments = append(payload.Attachments, share.URLAttachment(o.url))
	}

	text := o.text
	if text == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return share.Payload{}, fmt.Errorf("read stdin: %w", err)
		}
		text = share.DecodeText(data)
	}
	if strings.TrimSpace(text) != "" {
		payload.Attachments = append(payload.Attachments, share.TextAttachment(text))
	}

	for _, path := range o.files {
		att, err := share.FileAttachment(path)
		if err != nil {
			return share.Payload{}, err
		}
		payload.Attachments = append(payload.Attachments, att)
	}
	return payload, nil
}

func writeResult(w io.Writer, res pipeline.Result) error {
	data, err := sonic.ConfigStd.MarshalIndent(res.Summary(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, share.ErrClassification),
		errors.Is(err, share.ErrExtraction),
		errors.Is(err, share.ErrDecode):
		return exitInput
	case errors.Is(err, share.ErrCredentialMissing):
		return exitCredentials
	case errors.Is(err, share.ErrUploadFailure):
		return exitUpload
	case errors.Is(err, share.ErrDeliveryFailure):
		return exitDelivery
	default:
		return 1
	}
}
