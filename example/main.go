// This example program encodes one Transmission, wraps it in a
// link-layer frame, unwraps it again, and prints the round-tripped
// result to the console.
package main

import (
	"fmt"

	"chatteroo"
	"chatteroo/channel"
)

func main() {
	network, err := chatteroo.NewNetwork("VK7")
	if err != nil {
		fmt.Println("error: ", err)
		return
	}
	sender, err := chatteroo.NewStation("VK7XT", 4)
	if err != nil {
		fmt.Println("error: ", err)
		return
	}

	t := chatteroo.Transmission{
		Version: chatteroo.VersionV1,
		Network: network,
		Sender:  sender,
		Command: chatteroo.PingRequest{Target: sender},
	}

	payload := channel.Wrap(t)
	fmt.Printf("wrapped %d bytes: % x\n", len(payload), payload)

	destCallsign := channel.DestinationCallsign(network)
	got, err := channel.Unwrap(destCallsign, t.Version.SSID(), sender.Callsign(), sender.SSID(), payload)
	if err != nil {
		fmt.Println("error: ", err)
		return
	}

	fmt.Printf("round-tripped: version=%s network=%s sender=%s command=%T\n",
		got.Version, got.Network.ID(), got.Sender, got.Command)
}
