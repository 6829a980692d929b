package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hamish-milne/mipsim/pkg/cpu"
	"github.com/hamish-milne/mipsim/pkg/harness"
	"github.com/hamish-milne/mipsim/pkg/loader"
	"github.com/hamish-milne/mipsim/pkg/mem"
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:   "mipsim",
		Short: "mipsim — interpreting simulator for the MIPS-I instruction set",
	}

	// run command
	var format string
	var base, entry, memSize uint32
	var steps, debug int
	var dumpRegs bool

	runCmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a program image and execute it until a fault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ram := mem.NewRAM(base, memSize)
			n, err := loadImage(ram, format, base, args[0])
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"image": args[0],
				"bytes": n,
				"base":  fmt.Sprintf("0x%08x", base),
			}).Info("image loaded")

			c, err := cpu.New(ram)
			if err != nil {
				return err
			}
			c.SetDebugLevel(debug, os.Stderr)
			c.SetPC(entry)

			executed := 0
			for steps == 0 || executed < steps {
				if err := c.Step(); err != nil {
					reportFault(c, err, executed)
					break
				}
				executed++
			}
			if dumpRegs {
				dumpState(c)
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&format, "format", "bin", "Image format: bin or hex")
	runCmd.Flags().Uint32Var(&base, "base", 0, "Load address of the image")
	runCmd.Flags().Uint32Var(&entry, "entry", 0, "Initial program counter")
	runCmd.Flags().Uint32Var(&memSize, "mem", 1<<20, "RAM size in bytes")
	runCmd.Flags().IntVar(&steps, "steps", 0, "Maximum instructions to execute (0 = until fault)")
	runCmd.Flags().IntVar(&debug, "debug", 0, "Trace level (0 = silent)")
	runCmd.Flags().BoolVar(&dumpRegs, "dump-regs", false, "Dump registers when execution stops")

	// disasm command
	disasmCmd := &cobra.Command{
		Use:   "disasm [image]",
		Short: "Print an address / word / assembly listing of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ram := mem.NewRAM(base, memSize)
			n, err := loadImage(ram, format, base, args[0])
			if err != nil {
				return err
			}
			for addr := base; addr < base+n; addr += 4 {
				var b [4]byte
				if err := ram.Read(addr, b[:]); err != nil {
					return err
				}
				w := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
				fmt.Printf("%08x:  %08x  %s\n", addr, w, cpu.Disassemble(w))
			}
			return nil
		},
	}
	disasmCmd.Flags().StringVar(&format, "format", "bin", "Image format: bin or hex")
	disasmCmd.Flags().Uint32Var(&base, "base", 0, "Load address of the image")
	disasmCmd.Flags().Uint32Var(&memSize, "mem", 1<<20, "RAM size in bytes")

	// verify command
	var verbose bool

	verifyCmd := &cobra.Command{
		Use:   "verify [vectors.json]",
		Short: "Run a conformance vector suite against the simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", cpu.FaultFileRead, err)
			}
			defer f.Close()

			vectors, err := harness.ReadJSON(f)
			if err != nil {
				return err
			}

			fmt.Printf("Running %d vectors...\n", len(vectors))
			failed := 0
			for i, v := range vectors {
				if err := harness.Run(v); err != nil {
					failed++
					fmt.Printf("  [%d] FAIL: %s: %v\n", i+1, v.Name, err)
				} else if verbose {
					fmt.Printf("  [%d] PASS: %s\n", i+1, v.Name)
				}
			}
			fmt.Printf("\n%d total, %d passed, %d failed\n",
				len(vectors), len(vectors)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%d vectors failed", failed)
			}
			return nil
		},
	}
	verifyCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print passing vectors too")

	rootCmd.AddCommand(runCmd, disasmCmd, verifyCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadImage(ram *mem.RAM, format string, base uint32, path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", cpu.FaultFileRead, err)
	}
	defer f.Close()

	switch format {
	case "bin":
		return loader.Binary(ram, base, f)
	case "hex":
		return loader.Hex(ram, base, f)
	default:
		return 0, fmt.Errorf("%w: unknown format %q", cpu.FaultInvalidArgument, format)
	}
}

func reportFault(c *cpu.CPU, err error, executed int) {
	fields := logrus.Fields{
		"pc":    fmt.Sprintf("0x%08x", c.PC()),
		"steps": executed,
	}
	if f, ok := err.(cpu.Fault); ok && f.Architectural() {
		log.WithFields(fields).WithField("fault", f.String()).Info("execution stopped")
		return
	}
	log.WithFields(fields).WithError(err).Error("simulator error")
}

func dumpState(c *cpu.CPU) {
	for i := uint32(0); i < cpu.NumRegisters; i += 4 {
		for j := i; j < i+4; j++ {
			v, _ := c.Register(j)
			fmt.Printf("r%-2d %08x   ", j, v)
		}
		fmt.Println()
	}
	fmt.Printf("hi  %08x   lo  %08x   pc  %08x\n", c.HI(), c.LO(), c.PC())
}
