// Command secd is the command-line entry point: run a file, evaluate a
// single expression, or start the interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dr8co/secd/interp"
	"github.com/dr8co/secd/repl"
)

var (
	noColor bool
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "secd",
	Short: "Compile and run the little Scheme dialect this repository implements",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		if noColor {
			pterm.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, evalCmd, replCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "compile and run a source file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in, err := interp.New()
		if err != nil {
			fatal(err)
		}
		log.WithField("file", args[0]).Debug("running file")
		result, err := in.EvalFile(args[0])
		if err != nil {
			fatal(err)
		}
		log.WithField("result", result.Inspect()).Debug("evaluation finished")
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "compile and run a single expression",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in, err := interp.New()
		if err != nil {
			fatal(err)
		}
		log.WithField("expr", args[0]).Debug("evaluating expression")
		result, err := in.Eval(args[0])
		if err != nil {
			fatal(err)
		}
		pterm.Println(result.Inspect())
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "start the interactive read-eval-print loop",
	Run: func(cmd *cobra.Command, args []string) {
		repl.Start(repl.Options{NoColor: noColor})
	},
}

func fatal(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}
