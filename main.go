package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go-beatgrid/config"
	"go-beatgrid/debug"
	"go-beatgrid/midi"
	"go-beatgrid/pattern"
	"go-beatgrid/store"
)

var (
	configPath string
	debugLog   bool
	headless   bool
	force      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "beatgrid",
	Short: "Beat-synced performance grid for the APC mini mk2",
	Long: `beatgrid turns an APC mini mk2 into a beat-locked performance surface:
preset pads, pattern toggles, loopers, random and step-sequenced controls.

Connect the controller any time - it is detected automatically.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugLog {
			return debug.Enable("")
		}
		return nil
	},
	RunE: runPerformance,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, outs, ok := midi.PortNames()
		if !ok {
			return fmt.Errorf("MIDI port listing timed out")
		}
		fmt.Println("inputs:")
		for _, p := range ins {
			fmt.Printf("  %s\n", p)
		}
		fmt.Println("outputs:")
		for _, p := range outs {
			fmt.Printf("  %s\n", p)
		}
		return nil
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List built-in patterns",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range pattern.Builtins() {
			var steps []string
			for _, ev := range p.Events() {
				steps = append(steps, fmt.Sprintf("%g:%d", ev.Beat, ev.Preset))
			}
			fmt.Printf("%-18s %s\n", p.Name(), strings.Join(steps, " "))
		}
	},
}

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := store.DefaultDir()
		if err != nil {
			return err
		}
		saves, err := store.New(dir).List()
		if err != nil {
			return err
		}
		if len(saves) == 0 {
			fmt.Println("no saves in", dir)
			return nil
		}
		for _, s := range saves {
			fmt.Printf("%s  %-20s %s\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Name, s.Filename)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s exists (use --force to overwrite)", path)
		}
		if err := config.DefaultConfig().SaveFile(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/go-beatgrid/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Write a debug log to "+debug.DefaultPath())
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run without the terminal UI")

	configInitCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(configCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.ConfigPath()
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.LoadFile(path)
}
