package command

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ptgott/safestore/facade"
	"github.com/ptgott/safestore/storage"
)

var (
	// ErrNotFound means a key or index had no entry.
	ErrNotFound = errors.New("not found")
	// ErrUsage means the verb or its arguments were wrong.
	ErrUsage = errors.New("usage")
)

// Usage lists the verbs Run accepts.
const Usage = `VERBS:
  get KEY        print the value stored for KEY
  set KEY VALUE  store VALUE for KEY
  rm KEY         delete KEY
  clear          delete every key
  len            print the number of keys
  key N          print the key at position N
  list           print every key and value as Go-quoted strings,
                 tab-separated, one entry per line
  status         print "persistent" or "fallback"`

// Options change how Run treats a single invocation.
type Options struct {
	// Don't notify change listeners when setting a key
	Quiet bool
}

// verb describes one command: how many arguments it takes and what it does.
type verb struct {
	nargs int
	run   func(s *facade.Storage, args []string, opts Options, out io.Writer) error
}

var verbs = map[string]verb{
	"get": {1, func(s *facade.Storage, args []string, _ Options, out io.Writer) error {
		v, ok, err := s.GetItem(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key %q: %w", args[0], ErrNotFound)
		}
		_, err = fmt.Fprintln(out, v)
		return err
	}},
	"set": {2, func(s *facade.Storage, args []string, opts Options, _ io.Writer) error {
		return s.SetItem(args[0], args[1], opts.Quiet)
	}},
	"rm": {1, func(s *facade.Storage, args []string, _ Options, _ io.Writer) error {
		return s.RemoveItem(args[0])
	}},
	"clear": {0, func(s *facade.Storage, _ []string, _ Options, _ io.Writer) error {
		return s.Clear()
	}},
	"len": {0, func(s *facade.Storage, _ []string, _ Options, out io.Writer) error {
		l, err := s.Length()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, l)
		return err
	}},
	"key": {1, func(s *facade.Storage, args []string, _ Options, out io.Writer) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: the index must be an integer: %v", ErrUsage, err)
		}
		k, ok, err := s.Key(n)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("index %d: %w", n, ErrNotFound)
		}
		_, err = fmt.Fprintln(out, k)
		return err
	}},
	"list": {0, func(s *facade.Storage, _ []string, _ Options, out io.Writer) error {
		es, err := storage.Entries(s)
		if err != nil {
			return err
		}
		// Quoting keeps tabs and newlines inside keys and values from
		// breaking the line format.
		for _, e := range es {
			if _, err := fmt.Fprintf(out, "%q\t%q\n", e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	}},
	"status": {0, func(s *facade.Storage, _ []string, _ Options, out io.Writer) error {
		st := "persistent"
		if s.IsFallbackActive() {
			st = "fallback"
		}
		_, err := fmt.Fprintln(out, st)
		return err
	}},
}

// Run performs the verb in args[0] against s, writing any output to out.
func Run(s *facade.Storage, args []string, opts Options, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no verb given", ErrUsage)
	}

	v, ok := verbs[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown verb %q", ErrUsage, args[0])
	}

	if len(args)-1 != v.nargs {
		return fmt.Errorf(
			"%w: %q takes %d argument(s) but got %d",
			ErrUsage,
			args[0],
			v.nargs,
			len(args)-1,
		)
	}

	return v.run(s, args[1:], opts, out)
}
