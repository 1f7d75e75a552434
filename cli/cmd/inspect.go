package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/caseforge/caseforge/cli/reader"
	"github.com/caseforge/caseforge/cli/render"
	"github.com/caseforge/caseforge/cli/tui"
)

// InspectCommand returns the inspect command, which reads a recorded run
// journal and never touches the network or the browser.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Inspect a recorded run journal",
		ArgsUsage: "<journal-path>",
		Flags: append(ReadOnlyFlags(),
			&cli.BoolFlag{
				Name:  "cases",
				Usage: "Show the run's test cases instead of the summary",
			},
			&cli.BoolFlag{
				Name:  "scripts",
				Usage: "Show the run's scripts instead of the summary",
			},
			&cli.BoolFlag{
				Name:  "transcript",
				Usage: "Show the run's full progress log",
			},
		),
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("inspect requires exactly one journal path", 1)
	}

	run, err := reader.Load(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		if err := tui.RunInspect(run); err != nil {
			return cli.Exit(fmt.Sprintf("inspect view: %v", err), 1)
		}
		return nil
	}

	if c.Bool("transcript") {
		for _, line := range run.Transcript() {
			fmt.Println(line)
		}
		return nil
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	final, _ := run.Final()
	switch {
	case c.Bool("cases"):
		err = r.Render(final.TestCases)
	case c.Bool("scripts"):
		err = r.Render(final.Scripts)
	default:
		err = r.Render(run.Summary())
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
