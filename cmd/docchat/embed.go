package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"docchat/internal/config"
	"docchat/internal/session"
)

func newEmbedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "embed FILE",
		Short: "Upload a document and create its embeddings without the TUI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(flags, true)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			matchUploadExt(cfg, args[0])
			ctrl := newController(cmd.Context(), cfg, log)
			s := session.New()
			msg, err := uploadAndEmbed(cmd.Context(), ctrl, s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newAskCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask FILE QUESTION...",
		Short: "Embed a document and ask one question about it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(flags, true)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			matchUploadExt(cfg, args[0])
			ctrl := newController(ctx, cfg, log)
			s := session.New()
			if _, err := uploadAndEmbed(ctx, ctrl, s, args[0]); err != nil {
				return err
			}
			res := ctrl.SendMessage(ctx, s, strings.Join(args[1:], " "))
			if !res.OK() {
				return res.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

// matchUploadExt gives the upload path the extension of the source file so
// plain-text documents load as text.
func matchUploadExt(cfg *config.AppConfig, path string) {
	name := cfg.Session.UploadName
	cfg.Session.UploadName = strings.TrimSuffix(name, filepath.Ext(name)) + strings.ToLower(filepath.Ext(path))
}

// uploadAndEmbed runs the upload and embedding steps the TUI would.
func uploadAndEmbed(ctx context.Context, ctrl *session.Controller, s *session.Session, path string) (string, error) {
	var r io.Reader
	f, err := os.Open(path)
	if err != nil {
		r = failingReader{err}
	} else {
		defer f.Close()
		r = f
	}
	if res := ctrl.HandleUpload(s, filepath.Base(path), r); !res.OK() {
		return "", res.Err
	}
	res := ctrl.RequestEmbeddingCreation(ctx, s)
	if !res.OK() {
		return "", res.Err
	}
	return res.Message, nil
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }
