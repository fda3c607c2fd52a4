package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/nm-morais/go-golem/pkg/admin"
	"github.com/nm-morais/go-golem/pkg/dataStructures/frameBuffer"
	"github.com/nm-morais/go-golem/pkg/logs"
	"github.com/nm-morais/go-golem/pkg/messageIO"
	"github.com/nm-morais/go-golem/pkg/messages"
)

// frameDump prints the messages found in a captured stream. By default the
// input is raw length-prefixed frames; -hex reads the same bytes hex
// encoded and -envelopes reads one hex envelope per line.
func main() {
	var (
		in        string
		hexInput  bool
		envelopes bool
		maxFrame  int
	)
	flag.StringVar(&in, "in", "-", "input file, - for stdin")
	flag.BoolVar(&hexInput, "hex", false, "input is hex encoded")
	flag.BoolVar(&envelopes, "envelopes", false, "input holds one hex envelope per line, without length prefix")
	flag.IntVar(&maxFrame, "max-frame", frameBuffer.DefaultMaxFrameSize, "largest accepted frame")
	flag.Parse()

	logger := logs.NewLogger("frameDump")

	var r io.Reader = os.Stdin
	if in != "-" {
		f, err := os.Open(in)
		if err != nil {
			logger.Fatal(err)
		}
		defer f.Close()
		r = f
	}

	buf := frameBuffer.New(maxFrame)
	switch {
	case envelopes:
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64<<10), 2*maxFrame+1)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			payload, err := hex.DecodeString(line)
			if err != nil {
				logger.Fatal(err)
			}
			if err := buf.AppendFrame(payload); err != nil {
				logger.Fatal(err)
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Fatal(err)
		}
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			logger.Fatal(err)
		}
		if hexInput {
			if data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), "")); err != nil {
				logger.Fatal(err)
			}
		}
		buf.AppendRaw(data)
	}

	msgs, decodeErr := messageIO.NewDecoder(messages.NewRegistry(), nil, logger).ExtractPlainMessages(buf)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, m := range msgs {
		d, err := admin.Describe(m)
		if err != nil {
			logger.Fatal(err)
		}
		if err := enc.Encode(d); err != nil {
			logger.Fatal(err)
		}
	}
	if buf.Len() > 0 {
		logger.Warnf("%d trailing bytes do not form a complete frame", buf.Len())
	}
	if decodeErr != nil {
		os.Exit(1)
	}
}
