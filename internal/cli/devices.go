package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DevicesCmd creates the devices command.
// Lists available audio input devices for use with --device.
func DevicesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio input devices",
		Long: `List audio input devices detected by PortAudio.

Pass any unique part of a name to 'segrec record --device'. On Linux with
PulseAudio, "monitor" sources capture what the speakers play.`,
		Example: `  segrec devices
  segrec record --device "USB Microphone"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListDevices(env)
		},
	}
}

// runListDevices prints one input device per line to stdout.
func runListDevices(env *Env) error {
	devices, err := env.DeviceFactory.NewDeviceLister().ListDevices()
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Fprintln(env.Stderr, "No audio input devices found.")
		return nil
	}

	for _, d := range devices {
		fmt.Fprintln(env.Stdout, d)
	}
	return nil
}
