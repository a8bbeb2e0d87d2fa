package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/hitokoto-service/internal/adapters/http/dto"
)

func newInfoCmd(profile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Load the dataset and print its statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*profile)
			if err != nil {
				return err
			}

			// Logs go to stderr so stdout carries only the JSON document.
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

			ds, err := loadDataset(cmd.Context(), cfg, nil, logger)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")

			if err := enc.Encode(dto.NewInfoResponse(ds.Info())); err != nil {
				return fmt.Errorf("writing info: %w", err)
			}

			return nil
		},
	}
}
