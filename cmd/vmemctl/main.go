// Command vmemctl drives a running vmemd over HTTP, grounded on the
// donor's utils/http_client.go (EnviarHTTPMensaje / VerificarConexion),
// generalized into one subcommand per route instead of one message
// type per operation.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sisoputnfrba/go-vmem-tree/utils"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Args[1]
	command := os.Args[2]
	client := utils.NewClient(baseURL)

	var err error
	switch command {
	case "create":
		err = runCreate(client, os.Args[3:])
	case "read":
		err = runRead(client, os.Args[3:])
	case "write":
		err = runWrite(client, os.Args[3:])
	case "dump":
		err = runDump(client, os.Args[3:])
	case "metrics":
		err = runMetrics(client, os.Args[3:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "vmemctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: vmemctl <base-url> <command> [args...]

commands:
  create <name> <offset_width> <tables_depth> <num_frames>
  read   <name> <address>
  write  <name> <address> <value>
  dump   <name>
  metrics <name>
`)
}

func runCreate(c *utils.Client, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("create requires <name> <offset_width> <tables_depth> <num_frames>")
	}
	offsetWidth, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("offset_width: %w", err)
	}
	tablesDepth, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("tables_depth: %w", err)
	}
	numFrames, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("num_frames: %w", err)
	}

	body := map[string]interface{}{
		"name":         args[0],
		"offset_width": offsetWidth,
		"tables_depth": tablesDepth,
		"num_frames":   numFrames,
	}
	var result map[string]interface{}
	if err := c.PostJSON("/instances", body, &result); err != nil {
		return err
	}
	fmt.Printf("%+v\n", result)
	return nil
}

func runRead(c *utils.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("read requires <name> <address>")
	}
	address, err := strconv.ParseUint(args[1], 0, 64)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}

	var result map[string]int64
	if err := c.PostJSON("/instances/"+args[0]+"/read", map[string]uint64{"address": address}, &result); err != nil {
		return err
	}
	fmt.Println(result["value"])
	return nil
}

func runWrite(c *utils.Client, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("write requires <name> <address> <value>")
	}
	address, err := strconv.ParseUint(args[1], 0, 64)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	value, err := strconv.ParseInt(args[2], 0, 64)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}

	var result map[string]bool
	body := map[string]interface{}{"address": address, "value": value}
	if err := c.PostJSON("/instances/"+args[0]+"/write", body, &result); err != nil {
		return err
	}
	fmt.Println(result["ok"])
	return nil
}

func runDump(c *utils.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("dump requires <name>")
	}
	var result map[string]string
	if err := c.PostJSON("/instances/"+args[0]+"/dump", struct{}{}, &result); err != nil {
		return err
	}
	fmt.Println(result["path"])
	return nil
}

func runMetrics(c *utils.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("metrics requires <name>")
	}
	var result map[string]int64
	if err := c.GetJSON("/instances/"+args[0]+"/metrics", &result); err != nil {
		return err
	}
	fmt.Printf("%+v\n", result)
	return nil
}
