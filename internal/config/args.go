package config

import (
	"errors"
	"flag"
)

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads env defaults into cfg, then lets bind register
// flags defaulting to those values, then parses args. Flags win over env.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string, bind func(*T, *flag.FlagSet)) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := ParseEnv(cfg); err != nil {
		return err
	}
	if bind != nil && fs != nil {
		bind(cfg, fs)
	}
	return ParseArgs(fs, args)
}
