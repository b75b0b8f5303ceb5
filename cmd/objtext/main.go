// Command objtext converts firmware images between hex/object file
// dialects, sniffs dialects and inspects image layouts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"objtext"
	"objtext/image"
)

var (
	fromCodec string
	toCodec   string
	rowLength int
)

var rootCmd = &cobra.Command{
	Use:           "objtext",
	Short:         "Convert and inspect hex/object file images",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input> [output]",
	Short: "Convert an image between dialects",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadFile(args[0])
		if err != nil {
			return err
		}
		if !img.Valid {
			return fmt.Errorf("%s: no data records found", args[0])
		}
		out := os.Stdout
		if len(args) == 2 {
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		if err := objtext.Dump(toCodec, out, img, rowLength); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <input>",
	Short: "Sniff the dialect of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		name, ok := objtext.Probe(data)
		if !ok {
			return fmt.Errorf("%s: dialect not recognized", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Show the section layout of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadFile(args[0])
		if err != nil {
			return err
		}
		if !img.Valid {
			return fmt.Errorf("%s: no data records found", args[0])
		}
		printInfo(img)
		return nil
	},
}

func loadFile(path string) (*image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := fromCodec
	if name == "" {
		var ok bool
		name, ok = objtext.Probe(data)
		if !ok {
			return nil, fmt.Errorf("%s: dialect not recognized, use --from", path)
		}
	}
	img, err := objtext.Loads(name, string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func printInfo(img *image.Image) {
	fmt.Printf("%-12s%-12s%s\n", "START", "END", "LENGTH")
	for _, sec := range img.Sections {
		fmt.Printf("0x%08X  0x%08X  %d\n", sec.StartAddress, sec.EndAddr(), sec.Length())
	}
	fmt.Printf("total: %d sections, %d bytes\n", len(img.Sections), img.Len())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fromCodec, "from", "", "input dialect (probed when empty)")
	convertCmd.Flags().StringVar(&toCodec, "to", "", "output dialect")
	convertCmd.Flags().IntVar(&rowLength, "row-length", 16, "data bytes per record")
	convertCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(convertCmd, probeCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
