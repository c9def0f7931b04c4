package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	cli "github.com/urfave/cli/v3"

	"particlepack/internal/config"
	"particlepack/internal/pipeline"
)

const defaultNamespace = "videopack"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "particlepack",
	})

	app := &cli.Command{
		Name:      "particlepack",
		Usage:     "Convert a video into a Minecraft particle-animation datapack",
		ArgsUsage: "<video> [namespace]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON config file overlaying the defaults",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			videoPath := cmd.Args().Get(0)
			if videoPath == "" {
				return cli.Exit("usage: particlepack <video> [namespace]", 2)
			}
			if _, err := os.Stat(videoPath); err != nil {
				return cli.Exit(fmt.Sprintf("video not found: %s", videoPath), 1)
			}

			namespace := cmd.Args().Get(1)
			if namespace == "" {
				namespace = defaultNamespace
			}

			cfg := config.Default()
			if path := cmd.String("config"); path != "" {
				var err error
				cfg, err = config.Load(path)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}

			result, err := pipeline.Run(videoPath, namespace, cfg, logger)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			logger.Info("datapack ready",
				"frames", result.Frames,
				"dir", result.PackDir,
				"zip", result.ZipPath)
			logger.Info(fmt.Sprintf("in game: /reload, then /function %s:main", namespace))
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}
