package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// GlobalFlags returns the flags every postcard subcommand shares:
// logging verbosity and color.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "force colored log/output formatting",
		},
	}
}

// RecordFlags returns the flags describing the demo record and the
// flavor stack to frame it with — shared by the encode and size
// commands.
func RecordFlags() []cli.Flag {
	return append([]cli.Flag{
		cli.IntFlag{Name: "id", Usage: "record id (u32)"},
		cli.StringFlag{Name: "name", Usage: "record name"},
		cli.StringFlag{Name: "payload", Usage: "record payload, as hex"},
	}, FlavorFlags()...)
}

// FlavorFlags returns the flags selecting a flavor stack (COBS framing,
// a trailing CRC) — shared by every command that encodes or decodes.
func FlavorFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "cobs",
			Usage: "frame with COBS (no interior zero bytes, 0x00 terminator)",
		},
		cli.StringFlag{
			Name:  "crc",
			Usage: "append/verify a trailing checksum: one of 32, 16, 8",
		},
	}
}
