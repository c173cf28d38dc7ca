package main

import (
	"bufio"
	"flag"
	"io"
	"os"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"

	"github.com/geop/globe/app"
	"github.com/geop/globe/common/xfer"
)

// wscatMain attaches to a view websocket: every snapshot the app pushes is
// written to stdout as a line of JSON, and every line of stdin is sent back
// as a pick event, e.g. {"layer":"states","index":0,"x":10,"y":10}.
func wscatMain(args []string) {
	fs := flag.NewFlagSet("wscat", flag.ExitOnError)
	blockOnEOF := fs.Bool("b", false, "keep reading snapshots after stdin is closed")
	fs.Parse(args)

	// Output to stderr instead of stdout
	log.SetOutput(os.Stderr)
	if fs.NArg() != 1 {
		log.Fatal("Only one url argument expected, e.g. ws://localhost:4040/api/view/ws")
	}
	url := fs.Arg(0)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("Cannot dial %s: %s", url, err)
	}
	defer conn.Close()
	readQuit := make(chan int)
	writeQuit := make(chan int)

	// Read-from-app loop
	go func() {
		status := 0
		for {
			_, buf, err := conn.ReadMessage()
			if err != nil {
				if !xfer.IsExpectedWSCloseError(err) {
					status = 1
					log.Errorf("Error reading websocket: %s", err)
				}
				break
			}
			if _, err := os.Stdout.Write(append(buf, '\n')); err != nil {
				status = 1
				log.Errorf("Error writing to stdout: %s", err)
				break
			}
		}
		readQuit <- status
	}()

	// Write-to-app loop
	go func() {
		status := 0
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			var ev app.PickEvent
			if err := codec.NewDecoderBytes(scanner.Bytes(), &codec.JsonHandle{}).Decode(&ev); err != nil {
				log.Warnf("Not a pick event: %v", err)
				continue
			}
			if err := xfer.WriteJSONtoWS(conn, ev); err != nil {
				log.Errorf("Error writing websocket: %s", err)
				status = 1
				break
			}
		}
		if err := scanner.Err(); err != nil && err != io.EOF {
			log.Errorf("Error reading stdin: %s", err)
			status = 1
		}
		writeQuit <- status
	}()

	// block until one (both when blockOnEOF) of the goroutines exit
	// this convoluted mechanism is to ensure we only close the websocket once.
	var (
		readStatus  = -1
		writeStatus = -1
	)
	for {
		select {
		case readStatus = <-readQuit:
		case writeStatus = <-writeQuit:
		}
		if !*blockOnEOF || (readStatus != -1 && writeStatus != -1) {
			break
		}
	}
	if readStatus > 0 || writeStatus > 0 {
		os.Exit(1)
	}
}
