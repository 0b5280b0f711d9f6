package main

import (
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/index/trie"
	"github.com/urfave/cli/v2"
)

var cmdTrie = &cli.Command{
	Name:      "trie",
	Usage:     "load generated words into a trie and look some up",
	ArgsUsage: "[word...]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "words",
			Usage: "number of generated words to insert",
			Value: 1000,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "word generator seed",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "list stored words starting with this prefix",
		},
		&cli.BoolFlag{
			Name:  "print",
			Usage: "print the whole trie",
		},
	},
	Action: runTrie,
}

func runTrie(cctx *cli.Context) error {
	out := cctx.App.Writer
	t, err := loadWords(gofakeit.New(cctx.Int64("seed")), cctx.Int("words"))
	if err != nil {
		return err
	}
	if err := t.Check(); err != nil {
		return err
	}
	distinct := 0
	t.Walk(func([]byte, int) bool { distinct++; return true })
	slog.Info("trie loaded", "insertions", t.Len(), "distinct", distinct, "levels", t.Levels())

	for _, w := range cctx.Args().Slice() {
		if v, ok := t.Search([]byte(w)); ok {
			fmt.Fprintf(out, "%s: found (first inserted at #%d)\n", w, v)
		} else if t.HasPrefix([]byte(w)) {
			fmt.Fprintf(out, "%s: prefix only\n", w)
		} else {
			fmt.Fprintf(out, "%s: not found\n", w)
		}
	}
	if p := cctx.String("prefix"); p != "" {
		t.WalkPrefix([]byte(p), func(k []byte, _ int) bool {
			fmt.Fprintln(out, string(k))
			return true
		})
	}
	if cctx.Bool("print") {
		fmt.Fprint(out, t.Print())
	}
	return nil
}

// loadWords inserts n words. A repeated word keeps the payload of its first
// insertion.
func loadWords(f *gofakeit.Faker, n int) (*trie.Trie[byte, int], error) {
	t, err := trie.New[byte, int](index.Natural[byte]())
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		w := []byte(f.Word())
		payload := i
		if v, ok := t.Search(w); ok {
			payload = v
		}
		if err := t.Insert(w, payload); err != nil {
			return nil, err
		}
	}
	return t, nil
}
