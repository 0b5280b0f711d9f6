package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/btree-query-bench/ordidx/index/bplustree"
	"github.com/btree-query-bench/ordidx/index/bst"
	"github.com/btree-query-bench/ordidx/internal/walk"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

var cmdDump = &cli.Command{
	Name:      "dump",
	Usage:     "build a structure from keys, print it and check its invariants",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "kind",
			Usage: "structure: aa, avl, rb or bplus",
			Value: "rb",
		},
		&cli.IntSliceFlag{
			Name:     "keys",
			Usage:    "keys to insert, in order (comma separated)",
			Required: true,
		},
		&cli.IntSliceFlag{
			Name:  "remove",
			Usage: "keys to remove after inserting",
		},
		&cli.IntFlag{
			Name:  "degree",
			Usage: "B+ tree degree",
			Value: 3,
		},
		&cli.BoolFlag{
			Name:  "bulk",
			Usage: "bulk load the sorted, deduplicated keys (bplus only)",
		},
		&cli.StringFlag{
			Name:  "order",
			Usage: "also list keys in this traversal order: pre, in, post or level (binary trees only)",
		},
	},
	Action: runDump,
}

// dumpable is what dump needs from a structure.
type dumpable interface {
	Len() int
	Height() int
	Print() string
	Check() error
}

func runDump(cctx *cli.Context) error {
	keys := cctx.IntSlice("keys")
	removes := cctx.IntSlice("remove")
	out := cctx.App.Writer

	var s dumpable
	switch kind := cctx.String("kind"); kind {
	case "bplus":
		t, err := buildBPlus(keys, removes, cctx.Int("degree"), cctx.Bool("bulk"))
		if err != nil {
			return err
		}
		s = t
	default:
		t, err := buildTree(bst.Kind(kind), keys, removes)
		if err != nil {
			return err
		}
		if o := cctx.String("order"); o != "" {
			order, ok := walk.ParseOrder(o)
			if !ok {
				return errors.Wrapf(index.ErrBadArgument, "unknown traversal order %q", o)
			}
			var seen []int
			t.Walk(order, func(k int) bool {
				seen = append(seen, k)
				return true
			})
			fmt.Fprintf(out, "%s: %v\n", order, seen)
		}
		s = t
	}

	fmt.Fprint(out, s.Print())
	slog.Info("built structure", "kind", cctx.String("kind"), "len", s.Len(), "height", s.Height())
	if err := s.Check(); err != nil {
		return errors.Wrap(err, "invariant check failed")
	}
	slog.Info("invariants hold")
	return nil
}

func buildTree(kind bst.Kind, keys, removes []int) (bst.Tree[int], error) {
	t, err := bst.New(kind, index.Natural[int]())
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := t.Insert(k); err != nil {
			return nil, errors.Wrapf(err, "insert %d", k)
		}
	}
	for _, k := range removes {
		if !t.Remove(k) {
			slog.Warn("key not present", "key", k)
		}
	}
	return t, nil
}

func buildBPlus(keys, removes []int, degree int, bulk bool) (*bplustree.Tree[int], error) {
	t, err := bplustree.New(degree, index.Natural[int]())
	if err != nil {
		return nil, err
	}
	if bulk {
		sorted := slices.Compact(slices.Sorted(slices.Values(keys)))
		if err := t.BulkLoad(sorted); err != nil {
			return nil, err
		}
	} else {
		for _, k := range keys {
			if err := t.Insert(k); errors.Is(err, index.ErrDuplicate) {
				slog.Warn("duplicate key skipped", "key", k)
			} else if err != nil {
				return nil, errors.Wrapf(err, "insert %d", k)
			}
		}
	}
	for _, k := range removes {
		if err := t.Remove(k); errors.Is(err, index.ErrKeyNotFound) {
			slog.Warn("key not present", "key", k)
		} else if err != nil {
			return nil, err
		}
	}
	return t, nil
}
