package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// NewApp builds the base cli.App shell shared by the postcard CLI's
// commands: name, usage line, version, and the writer commands print
// through.
func NewApp(name, usage, version string) *cli.App {
	app := cli.NewApp()
	app.Name = name
	app.Usage = usage
	app.Version = version
	app.Writer = os.Stdout
	return app
}
