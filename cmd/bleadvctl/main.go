// Command bleadvctl is an operator CLI for driving a Manager against a
// real or mock controller, grounded on the urfave/cli command layout
// used by the pack's currantlabs-ble/examples/blesh tool.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/rigado/bleadv"
	"github.com/rigado/bleadv/hciadapter"
	"github.com/rigado/bleadv/transport/hcisocket"
	"github.com/rigado/bleadv/transport/uart"
)

var manager *bleadv.Manager

func main() {
	app := cli.NewApp()
	app.Name = "bleadvctl"
	app.Usage = "drive a multi-advertising-set manager against an HCI controller"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "transport, t", Value: "socket", Usage: "socket|uart"},
		cli.IntFlag{Name: "device, d", Value: 0, Usage: "hci device id (socket transport)"},
		cli.StringFlag{Name: "port, p", Usage: "serial port path (uart transport)"},
		cli.UintFlag{Name: "baud", Value: 115200, Usage: "serial baud rate (uart transport)"},
		cli.BoolFlag{Name: "privacy", Usage: "enable resolvable private address rotation"},
	}
	app.Before = setup

	app.Commands = []cli.Command{
		{
			Name:  "register",
			Usage: "register a new advertising instance",
			Action: func(c *cli.Context) error {
				return withManager(func() error {
					done := make(chan error, 1)
					manager.RegisterAdvertiser(func(instID uint8, status bleadv.Status) {
						if status != bleadv.StatusSuccess {
							done <- fmt.Errorf("register failed: %s", status)
							return
						}
						fmt.Printf("registered instance %d\n", instID)
						done <- nil
					})
					return <-done
				})
			},
		},
		{
			Name:      "start",
			Usage:     "start advertising on an existing instance",
			ArgsUsage: "<instance-id>",
			Flags: []cli.Flag{
				cli.DurationFlag{Name: "interval", Value: 100 * time.Millisecond},
				cli.BoolFlag{Name: "connectable"},
			},
			Action: func(c *cli.Context) error {
				instID, err := instanceArg(c)
				if err != nil {
					return err
				}
				return withManager(func() error {
					props := bleadv.AdvertisingEventProperties(0)
					if c.Bool("connectable") {
						props |= bleadv.AdvPropConnectable
					}
					ticks := uint16(c.Duration("interval") / (625 * time.Microsecond))
					done := make(chan error, 1)
					manager.SetParameters(instID, bleadv.AdvParams{
						Props:       props,
						IntervalMin: ticks,
						IntervalMax: ticks,
						ChannelMap:  0x07,
						TxPower:     0,
					}, func(status bleadv.Status, txPower int8) {
						if status != bleadv.StatusSuccess {
							done <- fmt.Errorf("set parameters failed: %s", status)
							return
						}
						manager.Enable(instID, true, 0, nil, func(status bleadv.Status) {
							if status != bleadv.StatusSuccess {
								done <- fmt.Errorf("enable failed: %s", status)
								return
							}
							fmt.Printf("advertising on instance %d, tx power %d\n", instID, txPower)
							done <- nil
						})
					})
					return <-done
				})
			},
		},
		{
			Name:  "disable",
			Usage: "stop advertising on an existing instance",
			Action: func(c *cli.Context) error {
				instID, err := instanceArg(c)
				if err != nil {
					return err
				}
				return withManager(func() error {
					done := make(chan error, 1)
					manager.Enable(instID, false, 0, nil, func(status bleadv.Status) {
						if status != bleadv.StatusSuccess {
							done <- fmt.Errorf("disable failed: %s", status)
							return
						}
						done <- nil
					})
					return <-done
				})
			},
		},
		{
			Name:  "unregister",
			Usage: "release an advertising instance",
			Action: func(c *cli.Context) error {
				instID, err := instanceArg(c)
				if err != nil {
					return err
				}
				return withManager(func() error {
					manager.Unregister(instID)
					fmt.Printf("unregistered instance %d\n", instID)
					return nil
				})
			},
		},
		{
			Name:  "status",
			Usage: "dump the current instance table as JSON",
			Action: func(c *cli.Context) error {
				return withManager(func() error {
					b, err := manager.DumpState()
					if err != nil {
						return err
					}
					fmt.Println(string(b))
					return nil
				})
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "bleadvctl:", err)
		os.Exit(1)
	}
}

func instanceArg(c *cli.Context) (uint8, error) {
	if c.NArg() < 1 {
		return 0, fmt.Errorf("missing instance id argument")
	}
	var id int
	if _, err := fmt.Sscanf(c.Args().Get(0), "%d", &id); err != nil {
		return 0, errors.Wrap(err, "bad instance id")
	}
	return uint8(id), nil
}

func withManager(fn func() error) error {
	if manager == nil {
		return fmt.Errorf("manager not initialized")
	}
	return fn()
}

func setup(c *cli.Context) error {
	var hci bleadv.HCIInterface
	switch c.String("transport") {
	case "socket":
		skt, err := hcisocket.Open(c.Int("device"))
		if err != nil {
			return errors.Wrap(err, "can't open hci socket")
		}
		hci = hciadapter.New(skt, false)
	case "uart":
		if c.String("port") == "" {
			return fmt.Errorf("uart transport requires --port")
		}
		t, err := uart.Open(c.String("port"), c.Uint("baud"))
		if err != nil {
			return errors.Wrap(err, "can't open uart transport")
		}
		hci = hciadapter.New(t, false)
	default:
		return fmt.Errorf("unknown transport %q", c.String("transport"))
	}

	var opts []bleadv.Option
	if c.Bool("privacy") {
		opts = append(opts, bleadv.WithPrivacy(bleadv.NewStaticSecurityProvider(randomIRK())))
	}

	m, err := bleadv.NewManager(hci, opts...)
	if err != nil {
		return errors.Wrap(err, "can't construct manager")
	}
	manager = m
	return nil
}

// randomIRK is a placeholder key source for the CLI's --privacy flag;
// real deployments provision the IRK during pairing and pass it in
// through a SecurityProvider built from stored bond state, not this
// binary.
func randomIRK() [16]byte {
	var irk [16]byte
	copy(irk[:], []byte("bleadvctl-demo-k"))
	return irk
}
