// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordrank command: weighted prefix completion
served over msgpack IPC, an interactive prompt, one-shot queries and a
benchmark comparing the index variants.

# Usage

Serve completions for a dictionary over stdin/stdout:

	wordrank serve --dict words.txt

Try a dictionary by hand with debug logging:

	wordrank --debug repl --dict words.txt --variant binary --limit 5

Query a few prefixes and exit:

	wordrank query --dict words.txt --limit 3 ame app

Compare every variant:

	wordrank bench --dict words.txt --seed 42 --trials 500

Convert between dictionary formats:

	wordrank convert --dict words.txt words.txt.dz

# Dictionaries

A dictionary holds weighted words. The text format starts with the number
of entries, followed by one "weight<TAB>word" line per entry:

	3
	1032	america
	77	amend
	12	amenity

Files ending in .dz are the same text wrapped in dictzip, and .bin files use
the compact binary layout of the dictionary package. Relative paths are
looked up in the working directory, next to the executable and in the data
directory under the config directory.

# Index variants

	linear     scans every term; the reference for the others
	binary     sorted terms, binary search for the prefix range
	trie       character trie with subtree maximum weights
	patricia   compressed trie with a bounded heap

All variants return identical results. Ties in weight are broken by the
word in ascending byte order.

# Configuration

Settings are read from config.toml in the config directory, created with
defaults on first run, or from the file given with --config:

	[engine]
	variant = "trie"
	cache_size = 0
	lowercase = true

	[server]
	max_limit = 64
	min_prefix = 0
	max_prefix = 60
	default_limit = 10

	[bench]
	seed = 1234
	trials = 1000
	time_limit = "5s"
	ks = [1, 4, 7]

	[cli]
	default_limit = 10
	no_filter = false

A file that fails to decode as a whole keeps every key that is well typed.

# IPC Protocol

See package server for the message formats. In short:

	{"id": "req1", "p": "ame", "l": 20}
	{"id": "req1", "s": [{"w": "america", "r": 1, "v": 1032}], "c": 1, "t": 12}
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "wordrank"
	gh      = "https://github.com/bastiangx/wordrank"
)

// sigHandler cancels the returned context on the first SIGINT or SIGTERM
// and exits on the second.
func sigHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx, cancel
}

func main() {
	ctx, cancel := sigHandler()
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Error(err)
		cancel()
		os.Exit(1)
	}
}
