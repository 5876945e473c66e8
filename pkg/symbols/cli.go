package symbols

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "symbols",
		Usage: "Inspect the map annotation icon library",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "print the available symbols",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "only print symbols of this category",
					},
				},
				Action: func(c *cli.Context) error {
					symbols, err := ByCategory(c.String("category"))
					if err != nil {
						return err
					}

					for _, symbol := range symbols {
						fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\n", symbol.Category, symbol.ID, symbol.Icon, symbol.Label)
					}

					return nil
				},
			},
		},
	}
}
