package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tttarena/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeDelay  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH spectator server",
	Long: `Start an SSH server where every connection watches its own live run.

The seed is taken from the ssh command line, otherwise it is time-based.
Finished runs are stored in the shared runs database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tttarena/host_key

Examples:
  tttarena serve                           # Listen on :23234 with auto-generated key
  tttarena serve --ssh :2222               # Listen on port 2222
  tttarena serve --host-key ./my_host_key  # Use specific host key

Viewers connect with:
  ssh -t localhost -p 23234        # time-based seed
  ssh -t localhost -p 23234 42     # seed 42`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().DurationVar(&flagServeDelay, "delay", 50*time.Millisecond, "Initial pause between placements")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	serverCfg := sshServerConfig(cfg.Storage.Path)
	factory := func(seed int64) (tui.Session, error) {
		return newSession(cfg, seed, logger.WithPrefix("run"))
	}

	server, err := tui.NewSSHServer(serverCfg, factory)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Starting tttarena SSH server on %s\n", server.Addr())
	fmt.Fprintf(w, "Connect with: %s\n", connectHint(server.Addr()))
	fmt.Fprintln(w, "Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// sshServerConfig starts from the server defaults and applies the flags
// that were given a usable value.
func sshServerConfig(dbPath string) tui.SSHServerConfig {
	sc := tui.DefaultSSHServerConfig()
	if flagSSHAddr != "" {
		sc.Address = flagSSHAddr
	}
	sc.HostKeyPath = flagHostKey
	if dbPath != "" {
		sc.DBPath = dbPath
	}
	if flagIdleTimeout > 0 {
		sc.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	if flagServeDelay > 0 {
		sc.Delay = flagServeDelay
	}
	sc.Logger = logger
	return sc
}

// connectHint renders the ssh command a viewer runs to reach addr.
func connectHint(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "ssh -t " + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	if port == "22" {
		return "ssh -t " + host
	}
	return fmt.Sprintf("ssh -t %s -p %s", host, port)
}
