package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelforge/internal/config"
	"reelforge/internal/render"
	"reelforge/internal/session"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render <clip>",
		Short: "Render one clip without publishing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			clip, err := session.ClipAt(path)
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			renderer, _ := newRenderer(cfg, logger)
			output, err := render.NewJob(cfg, clip).Run(cmd.Context(), renderer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s (%s) to %s\n", clip.Filename(), clip.Orientation, output)
			return nil
		},
	}
}
