package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"

	lake "github.com/Nathan-E-White/Lake"
	"github.com/Nathan-E-White/Lake/codec"
)

const defaultSegment = "lake.seg"

func main() {
	file := flag.String("file", defaultSegment, "Active segment file")
	dir := flag.String("dir", "", "Directory of segment files to index at startup")
	sync := flag.Bool("sync", false, "Fsync after every insert")
	flag.Parse()

	opts := []lake.Option{}
	if *sync {
		opts = append(opts, lake.WithSyncWrites())
	}

	var store *lake.Store
	var err error

	if *dir != "" {
		store, err = lake.Open("", codec.KVCodec{}, opts...)
		if err != nil {
			log.Fatal(err)
		}
		if err := store.IndexDirectory(*dir); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Indexed %d keys from %s\n", store.Len(), *dir)
	} else {
		store, err = lake.Open(*file, codec.KVCodec{}, opts...)
		if err != nil {
			log.Fatal(err)
		}
	}

	if active := store.ActiveSegment(); active != "" {
		fmt.Printf("Appending to %s\n", active)
	}
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if line == "exit" {
			return
		}

		words, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}

		handleCommand(store, words)
	}
}

func handleCommand(store *lake.Store, words []string) {
	cmd := strings.ToLower(words[0])
	args := words[1:]

	switch cmd {
	case "set":
		if !expectArgs(args, 2, "set <key> <value>") {
			return
		}
		if err := store.Insert(codec.KV{K: args[0], V: args[1]}); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("ok")

	case "get":
		if !expectArgs(args, 1, "get <key>") {
			return
		}
		values, err := store.Lookup(args[0])
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if len(values) == 0 {
			fmt.Println("nil")
			return
		}
		fmt.Println(values[len(values)-1].(codec.KV).V)

	case "history":
		if !expectArgs(args, 1, "history <key>") {
			return
		}
		values, err := store.Lookup(args[0])
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if len(values) == 0 {
			fmt.Println("nil")
			return
		}
		for i, v := range values {
			fmt.Printf("%d: %s\n", i, v.(codec.KV).V)
		}

	case "del":
		if !expectArgs(args, 1, "del <key>") {
			return
		}
		store.Remove(args[0])
		fmt.Println("ok")

	case "keys":
		keys := store.Keys()
		if len(keys) == 0 {
			fmt.Println("nil")
			return
		}
		fmt.Println("----- KEYS START -----")
		fmt.Println(strings.Join(keys, "\n"))
		fmt.Println("----- KEYS END -----")

	case "count":
		fmt.Println(store.Len())

	case "clear":
		store.ClearIndex()
		fmt.Println("ok")

	case "index":
		if !expectArgs(args, 1, "index <dir>") {
			return
		}
		if err := store.IndexDirectory(args[0]); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("indexed %d keys, appending to %s\n", store.Len(), store.ActiveSegment())

	case "save":
		if !expectArgs(args, 1, "save <file>") {
			return
		}
		if err := store.SaveSnapshot(args[0]); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("ok")

	case "load":
		if !expectArgs(args, 1, "load <file>") {
			return
		}
		if err := store.LoadSnapshot(args[0]); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("ok")

	case "help":
		fmt.Println(strings.TrimSpace(helpString))

	default:
		fmt.Println("Invalid Command")
	}
}

func expectArgs(args []string, n int, usage string) bool {
	if len(args) != n {
		fmt.Println("usage:", usage)
		return false
	}
	return true
}

const helpString = `
Available Commands:

SET <key> <value>
  Append a new version of the value for the given key.
  Response: ok

GET <key>
  Retrieve the current value for the key.
  Response: value | nil

HISTORY <key>
  List every stored version of the key, oldest first.
  Response: numbered versions | nil

DEL <key>
  Drop the key from the index. Segment bytes are kept.
  Response: ok

KEYS
  List all indexed keys in ascending order.
  Response: list of keys | nil

COUNT
  Return the number of indexed keys.
  Response: integer

CLEAR
  Drop the whole index. Segment files are untouched.
  Response: ok

INDEX <dir>
  Rebuild the index from every file in the directory.
  The last file scanned becomes the active segment.

SAVE <file>
  Persist the index to a snapshot file.

LOAD <file>
  Replace the index with a saved snapshot.

HELP
  Show this help message.

EXIT
  Quit.
`
