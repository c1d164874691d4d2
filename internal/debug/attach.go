package debug

import (
	"bufio"
	"fmt"
	"net"
	"strings"
)

// continueCommand is the single line a connected debugger must send to
// release the paused serve process. There is no real DAP implementation
// here, since nothing in the retrieved dependency set ships one: this is
// a minimal manual handshake, not a debug adapter protocol server.
const continueCommand = "continue"

// WaitForAttach opens a TCP listener on port, blocks until a client
// connects and sends "continue\n", then closes the listener and
// returns. It is meant to be called once, synchronously, before the
// `serve` subcommand enters its stdio dispatch loop.
func WaitForAttach(port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to open debug attach listener on %s: %w", addr, err)
	}
	defer ln.Close()

	Printf("waiting for debugger to attach on %s", addr)

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("debug attach listener failed to accept: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(conn, "kconfig-lsp paused; send %q to continue\n", continueCommand)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if strings.TrimSpace(line) == continueCommand {
			Printf("debugger sent continue, resuming")
			return nil
		}
		if err != nil {
			return fmt.Errorf("debug attach connection closed before continue: %w", err)
		}
	}
}
