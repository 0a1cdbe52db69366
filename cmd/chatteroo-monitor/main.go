// chatteroo-monitor is an interactive terminal dashboard for watching a
// Chatteroo channel: it drives a Transmitter/Receiver pair, tracks
// which stations it has heard from, and periodically announces its own
// Status so other stations can hear it too.
//
// It is ambient demo tooling, not part of the protocol core - the same
// role the teacher's main.go plays for go1090's mode_s decoder.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/rs/xid"

	. "github.com/logrusorgru/aurora"

	"chatteroo"
	"chatteroo/channel"
)

// Context bundles everything the dashboard redraws from: the channel
// it listens on, its own station identity, and the book of stations it
// has heard, the same shape as the teacher's decoder+sky pairing.
type Context struct {
	net     chatteroo.Network
	self    chatteroo.Station
	version chatteroo.ChatterooVersion
	tx      channel.Transmitter
	book    *book
	metrics *metrics
	started time.Time
}

func (ctx *Context) update(g *gocui.Gui) error {
	s, err := g.View("status")
	if err != nil {
		return nil
	}
	s.Clear()
	fmt.Fprintf(s, " NET: %s  SELF: %s  HEARD: %02d  UPTIME: %s\n",
		Cyan(ctx.net.ID()),
		Green(ctx.self.String()),
		Green(ctx.book.count()),
		Bold(Green(time.Since(ctx.started).Truncate(time.Second).String())))

	l, err := g.View("list")
	if err != nil {
		return nil
	}
	l.Clear()

	fmt.Fprintln(l, " STATION        LAST COMMAND  MESSAGES  LAST SEEN  CORR ID")
	fmt.Fprintln(l, " ===================================================================")

	entries := ctx.book.entries()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].station.String() < entries[j].station.String()
	})

	for _, e := range entries {
		fmt.Fprintln(l, Sprintf(Yellow(" %-12s   %-11d  %-8d  %-9s  %s"),
			e.station.String(),
			e.lastTag,
			e.messages,
			e.lastSeen.Format("15:04:05"),
			e.corrID))
	}

	return nil
}

func main() {
	netFlag := flag.String("net", "VK7", "network identifier (<=3 uppercase letters/digits)")
	callsignFlag := flag.String("callsign", "VK7XT", "this station's callsign")
	ssidFlag := flag.Uint("ssid", 4, "this station's SSID (0-9)")
	versionFlag := flag.String("version", "v1", "protocol version: test or v1")
	transportFlag := flag.String("transport", "loopback", "transport: loopback or udp")
	listenFlag := flag.String("listen", ":7373", "udp transport: local listen address")
	broadcastFlag := flag.String("broadcast", "255.255.255.255:7373", "udp transport: broadcast address")
	metricsFlag := flag.String("metrics", ":9273", "address the /metrics endpoint listens on")
	statusPeriod := flag.Duration("status-period", 30*time.Second, "how often to broadcast our own Status")
	flag.Parse()

	self, err := chatteroo.NewStation(*callsignFlag, uint8(*ssidFlag))
	if err != nil {
		log.Panicln("invalid callsign/ssid:", err)
	}
	network, err := chatteroo.NewNetwork(*netFlag)
	if err != nil {
		log.Panicln("invalid network:", err)
	}

	var version chatteroo.ChatterooVersion
	switch *versionFlag {
	case "test":
		version = chatteroo.VersionTest
	case "v1":
		version = chatteroo.VersionV1
	default:
		log.Panicln("unrecognized -version, want test or v1:", *versionFlag)
	}

	var ch interface {
		channel.Transmitter
		channel.Receiver
	}
	switch *transportFlag {
	case "loopback":
		ch = channel.NewLoopbackChannel()
	case "udp":
		udp, err := channel.NewUDPChannel(*listenFlag, *broadcastFlag)
		if err != nil {
			log.Panicln("udp transport:", err)
		}
		ch = udp
	default:
		log.Panicln("unrecognized -transport, want loopback or udp:", *transportFlag)
	}

	m := newMetrics()
	m.serve(*metricsFlag)

	ctx := &Context{
		net:     network,
		self:    self,
		version: version,
		tx:      ch,
		book:    newBook(),
		metrics: m,
		started: time.Now(),
	}

	g, err := gocui.NewGui(gocui.OutputNormal, false)
	if err != nil {
		log.Panicln(err)
	}
	defer g.Close()

	g.SetManagerFunc(layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	go func() {
		for {
			t, err := ch.Receive()
			if err != nil {
				if err == channel.ErrOffline {
					return
				}
				if err == chatteroo.ErrCrcMismatch {
					m.crcMismatches.Inc()
				} else {
					m.decodeErrors.Inc()
				}
				continue
			}
			m.framesDecoded.Inc()
			ctx.book.see(t.Sender, t.Command.Tag(), xid.New().String())
			m.stationsHeard.Set(float64(ctx.book.count()))
			g.Update(ctx.update)
		}
	}()

	go func() {
		for range time.Tick(*statusPeriod) {
			announceStatus(ctx)
			g.Update(ctx.update)
		}
	}()

	if err := g.MainLoop(); err != nil && !gocui.IsQuit(err) {
		log.Panicln(err)
	}
}

// announceStatus broadcasts a minimal Status command for this station:
// all-zero epoch checksums and no recently-added stations, since the
// monitor does not itself hold a frame store. It exists to demonstrate
// a live Transmission, not to participate in real sync.
func announceStatus(ctx *Context) {
	epoch := chatteroo.EpochNow()
	err := ctx.tx.Send(chatteroo.Transmission{
		Version: ctx.version,
		Network: ctx.net,
		Sender:  ctx.self,
		Command: chatteroo.Status{
			EpochNowMod8: epoch.IndexMod8(),
		},
	})
	if err != nil {
		log.Println("status broadcast failed:", err)
	}
}

func layout(g *gocui.Gui) error {
	const maxX = 80
	_, maxY := g.Size()

	v, _ := g.SetView("status", 0, 0, maxX-2, 2, 0)
	v.Title = " STATUS "
	fmt.Fprintln(v, " NET: --  SELF: --  HEARD: 00  UPTIME: 0s")

	v, _ = g.SetView("list", 0, 3, maxX-2, maxY-1, 0)
	v.Title = " STATIONS HEARD "
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
