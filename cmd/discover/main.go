// Command discover lists canvas servers announced on the local network.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/inamate/canvas/internal/discovery"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Second, "how long to listen for answers")
	flag.Parse()

	peers, err := discovery.Browse(*timeout)
	if err != nil {
		slog.Error("browse", "error", err)
		os.Exit(1)
	}
	if len(peers) == 0 {
		fmt.Println("no canvas servers found")
		return
	}
	for _, p := range peers {
		fmt.Printf("%s\thttp://%s\n", p.Name, p.Addr)
	}
}
