// Command dbgcli is an interactive debug client for the graphdb wire
// protocol, a Go rewrite of selvad/tools/dbgcli: it sends one command
// per invocation or line, encoding every argument as a TLV string and
// printing whatever the server replies.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"graphdb/internal/server"
	"graphdb/internal/wire"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "graphdb server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dbgcli: dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	reg := server.NewDefaultRegistry()

	if args := flag.Args(); len(args) > 0 {
		runOne(conn, reg, args, 0)
		return
	}

	fmt.Printf("connected to %s, type a command (e.g. \"ping\", \"selva.hierarchy.find root\")\n", *addr)
	scanner := bufio.NewScanner(os.Stdin)
	var seqno uint32
	for {
		fmt.Print("dbgcli> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		runOne(conn, reg, strings.Fields(line), seqno)
		seqno++
	}
}

func runOne(conn net.Conn, reg *server.Registry, fields []string, seqno uint32) {
	cmd, ok := reg.LookupByName(fields[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "dbgcli: unknown command %q (try lscmd)\n", fields[0])
		return
	}

	var body []byte
	for _, a := range fields[1:] {
		body = wire.AppendString(body, a)
	}
	if err := wire.WriteMessage(conn, cmd.ID, 0, seqno, body); err != nil {
		fmt.Fprintf(os.Stderr, "dbgcli: send failed: %v\n", err)
		return
	}

	reasm := wire.NewReassembler()
	for {
		hdr, payload, err := wire.ReadFrame(conn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dbgcli: read failed: %v\n", err)
			return
		}
		msg, done, err := reasm.Feed(hdr, payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dbgcli: reassembly failed: %v\n", err)
			return
		}
		if !done {
			continue
		}
		printValues(msg)
		return
	}
}

func printValues(msg []byte) {
	for len(msg) > 0 {
		v, n, err := wire.DecodeValue(msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dbgcli: malformed reply: %v\n", err)
			return
		}
		msg = msg[n:]
		switch v.Kind {
		case wire.KindNull:
			fmt.Println("(nil)")
		case wire.KindError:
			fmt.Printf("(error) %d %s\n", v.Err.Code, v.Err.Message)
		case wire.KindDouble:
			fmt.Printf("(double) %g\n", v.Double)
		case wire.KindLong:
			fmt.Printf("(integer) %d\n", v.Long)
		case wire.KindString:
			fmt.Printf("%q\n", v.Str)
		case wire.KindArray:
			fmt.Printf("(array: %d)\n", v.ArrayLen)
		case wire.KindArrayEnd:
			fmt.Println("(array end)")
		}
	}
}
