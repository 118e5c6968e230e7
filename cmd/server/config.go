package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Golloumette/escape-game/internal/version"
)

type config struct {
	bind         string
	port         int
	publicURL    string
	mapPath      string
	puzzleSeed   int64
	targetSolved int
	bots         int
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.targetSolved < 1 {
		return fmt.Errorf("invalid target-solved (must be at least 1): %d", c.targetSolved)
	}
	if c.bots < 0 {
		return fmt.Errorf("invalid bots (must be non-negative): %d", c.bots)
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("ESCAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "escape-server",
		Short:         "Session relay for the cooperative tile-grid escape game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: ESCAPE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: ESCAPE_PORT)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "public base URL for QR codes (env: ESCAPE_PUBLIC_URL)")
	fs.StringVar(&cfg.mapPath, "map", "", "path to a map JSON file, empty for the built-in building (env: ESCAPE_MAP)")
	fs.Int64Var(&cfg.puzzleSeed, "puzzle-seed", 0, "seed for the puzzle shuffle, 0 for random (env: ESCAPE_PUZZLE_SEED)")
	fs.IntVar(&cfg.targetSolved, "target-solved", 6, "doors to solve before access doors unlock (env: ESCAPE_TARGET_SOLVED)")
	fs.IntVar(&cfg.bots, "bots", 0, "headless agents to smoke-drive the default room (env: ESCAPE_BOTS)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("escape-server {{.Version}}\n")

	return cmd
}
