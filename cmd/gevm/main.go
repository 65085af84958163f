package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"gevm/vm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
}

func main() {
	app := &cli.App{
		Name:  "gevm",
		Usage: "disassemble and run EVM-instruction-set bytecode",
		Commands: []*cli.Command{
			disassembleCommand(),
			runCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func filenameFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "filename",
		Aliases:  []string{"f"},
		Usage:    "path to a plain hex-text ROM file",
		Required: true,
	}
}

func loadROM(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading ROM file")
	}
	code, err := vm.DecodeROM(string(raw))
	if err != nil {
		return nil, err
	}
	return code, nil
}

func disassembleCommand() *cli.Command {
	return &cli.Command{
		Name:  "disassemble",
		Usage: "print the mnemonic form of a ROM file",
		Flags: []cli.Flag{filenameFlag()},
		Action: func(ctx *cli.Context) error {
			code, err := loadROM(ctx.String("filename"))
			if err != nil {
				return err
			}
			return vm.Disassemble(code, os.Stdout)
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "execute a ROM file",
		Flags: []cli.Flag{
			filenameFlag(),
			&cli.StringFlag{
				Name:  "env",
				Usage: "optional YAML file populating the Environment record",
			},
			&cli.BoolFlag{
				Name:  "trace-logs",
				Usage: "print LOG0-4 events to stdout as they are emitted",
			},
		},
		Action: func(ctx *cli.Context) error {
			code, err := loadROM(ctx.String("filename"))
			if err != nil {
				return err
			}

			env := vm.Environment{}
			if path := ctx.String("env"); path != "" {
				env, err = vm.LoadEnvironment(path)
				if err != nil {
					return err
				}
			}

			var sink vm.LogSink
			if ctx.Bool("trace-logs") {
				sink = vm.WriterSink{Printf: func(format string, args ...any) {
					fmt.Fprintf(os.Stdout, format, args...)
				}}
			}

			execCtx := vm.NewContext(code, nil, env, sink)
			result := execCtx.Run(func(ev vm.TraceEvent) {
				mnemonic := ev.Mnemonic
				if mnemonic == "" {
					mnemonic = fmt.Sprintf("0x%02x", ev.Opcode)
				}
				fmt.Printf("%#06x: %s\n", ev.PC, mnemonic)
			})

			switch result.Outcome {
			case vm.HaltOk:
				if len(result.ReturnData) > 0 {
					fmt.Printf("return: 0x%x\n", result.ReturnData)
				}
				fmt.Println("halted: ok")
				return nil
			case vm.HaltRevert:
				fmt.Printf("revert: 0x%x\n", result.ReturnData)
				fmt.Println("halted: revert")
				return nil
			default:
				log.WithError(result.Err).Error("execution faulted")
				return cli.Exit(result.Err, 1)
			}
		},
	}
}
