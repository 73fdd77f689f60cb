// Command postcard exercises the postcard library end to end against a
// small built-in demo schema: a record of (id uint32, name string,
// payload bytes), matching spec scenario 1. It exists so the library
// has a real, runnable surface, the same way every repo in the corpus
// ships a small cmd/ alongside its packages.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/gopostcard/postcard/crc"
	"github.com/gopostcard/postcard/flags"
	"github.com/gopostcard/postcard/postcard"
	"github.com/gopostcard/postcard/wire"
)

var log = logrus.New()

// record is the CLI's demo schema: a u32 id, a UTF-8 name, and a
// byte-array payload.
type record struct {
	ID      uint32
	Name    string
	Payload []byte
}

func (r *record) MarshalPostcard(enc *wire.Encoder) error {
	if err := enc.EncodeU32(r.ID); err != nil {
		return err
	}
	if err := enc.EncodeString(r.Name); err != nil {
		return err
	}
	return enc.EncodeBytes(r.Payload)
}

func (r *record) UnmarshalPostcard(dec *wire.Decoder) error {
	id, err := dec.DecodeU32()
	if err != nil {
		return err
	}
	name, err := dec.DecodeString()
	if err != nil {
		return err
	}
	payload, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	r.ID, r.Name, r.Payload = id, name, payload
	return nil
}

func main() {
	app := flags.NewApp("postcard", "encode, decode, size, and dump postcard-framed records", "0.1.0")
	app.Flags = flags.GlobalFlags()
	app.Before = func(c *cli.Context) error {
		log.SetLevel(verbosityToLevel(c.GlobalInt("log.verbosity")))
		color.NoColor = !(c.GlobalBool("log.color") || isatty.IsTerminal(os.Stdout.Fd()))
		return nil
	}

	app.Commands = []cli.Command{
		encodeCommand,
		decodeCommand,
		sizeCommand,
		dumpCommand,
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func verbosityToLevel(v int) logrus.Level {
	switch {
	case v <= 0:
		return logrus.FatalLevel
	case v == 1:
		return logrus.ErrorLevel
	case v == 2:
		return logrus.WarnLevel
	case v == 3:
		return logrus.InfoLevel
	case v == 4:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

var recordFlags = flags.RecordFlags()

func crcOption(c *cli.Context) (postcard.Option, error) {
	switch c.String("crc") {
	case "":
		return nil, nil
	case "32":
		return postcard.WithCRC(crc.CRC32), nil
	case "16":
		return postcard.WithCRC(crc.CRC16), nil
	case "8":
		return postcard.WithCRC(crc.CRC8), nil
	default:
		return nil, fmt.Errorf("postcard: --crc must be one of 32, 16, 8, got %q", c.String("crc"))
	}
}

func buildOptions(c *cli.Context) ([]postcard.Option, error) {
	var opts []postcard.Option
	if c.Bool("cobs") {
		opts = append(opts, postcard.WithCOBS())
	}
	crcOpt, err := crcOption(c)
	if err != nil {
		return nil, err
	}
	if crcOpt != nil {
		opts = append(opts, crcOpt)
	}
	return opts, nil
}

func recordFromFlags(c *cli.Context) (*record, error) {
	payload, err := hex.DecodeString(c.String("payload"))
	if err != nil {
		return nil, fmt.Errorf("postcard: --payload is not valid hex: %w", err)
	}
	return &record{
		ID:      uint32(c.Int("id")),
		Name:    c.String("name"),
		Payload: payload,
	}, nil
}

var encodeCommand = cli.Command{
	Name:  "encode",
	Usage: "encode a record and write the framed bytes to stdout",
	Flags: recordFlags,
	Action: func(c *cli.Context) error {
		r, err := recordFromFlags(c)
		if err != nil {
			return err
		}
		opts, err := buildOptions(c)
		if err != nil {
			return err
		}
		buf, err := postcard.Marshal(r, opts...)
		if err != nil {
			return err
		}
		log.Debugf("encoded %d bytes for id=%d", len(buf), r.ID)
		_, err = os.Stdout.Write(buf)
		return err
	},
}

var decodeCommand = cli.Command{
	Name:  "decode",
	Usage: "decode framed bytes from stdin and print the record",
	Flags: flags.FlavorFlags(),
	Action: func(c *cli.Context) error {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		opts, err := buildOptions(c)
		if err != nil {
			return err
		}
		var r record
		if err := postcard.Unmarshal(data, &r, opts...); err != nil {
			return err
		}
		color.Green("id=%d name=%q payload=%s", r.ID, r.Name, hex.EncodeToString(r.Payload))
		return nil
	},
}

var sizeCommand = cli.Command{
	Name:  "size",
	Usage: "print the exact encoded size of a record without writing it",
	Flags: recordFlags,
	Action: func(c *cli.Context) error {
		r, err := recordFromFlags(c)
		if err != nil {
			return err
		}
		opts, err := buildOptions(c)
		if err != nil {
			return err
		}
		n, err := postcard.Size(r, opts...)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var dumpCommand = cli.Command{
	Name:  "dump",
	Usage: "hex-dump framed bytes read from stdin",
	Action: func(c *cli.Context) error {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		for i := 0; i < len(data); i += 16 {
			end := i + 16
			if end > len(data) {
				end = len(data)
			}
			fmt.Printf("%08x  %s\n", i, hex.EncodeToString(data[i:end]))
		}
		return nil
	},
}
