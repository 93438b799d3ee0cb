package main

import (
	"flag"
	"fmt"
	"os"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Program() string { return "snapmark config" }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Print(c.settings().String())
		return nil
	case "path":
		if p := c.loader.GetConfigPath(); p != "" {
			fmt.Println(p)
			return nil
		}
		fmt.Printf("%s (not present)\n", c.loader.DefaultPath())
		return nil
	case "save":
		path, err := c.loader.Save(c.settings())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
		return nil
	default:
		return &UsageError{of: c, msg: fmt.Sprintf("unknown config command: %s", args[0])}
	}
}
