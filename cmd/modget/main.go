// Command modget sends one GET request to a modserve instance and copies
// the raw response to stdout.
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	addr    string
	method  string
	version string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "modget <module>",
	Short:        "Fetch one module page from modserve",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "server address")
	rootCmd.Flags().StringVar(&method, "method", "GET", "request method")
	rootCmd.Flags().StringVar(&version, "http", "HTTP/1.0", "protocol version token")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall deadline")
}

func target(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

func run(cmd *cobra.Command, args []string) error {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("error connecting: %w", err)
	}
	defer c.Close()
	if err := c.SetDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(c, "%s %s %s\r\n\r\n", method, target(args[0]), version); err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	if _, err := io.Copy(os.Stdout, c); err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
