// Command gridmount exposes a flat blob store as a hierarchical filesystem
// from the command line.
//
// Usage:
//
//	gridmount [-config path] <command> [arguments]
//
// Commands:
//
//	ls [dir]            list direct children of a directory
//	cat <path>          print file content to stdout
//	put <path> [file]   store a file (or stdin) at path
//	rm <path>           delete a file
//	rmdir <dir>         delete every object under a directory
//	mv <src> <dst>      rename a file (copy then delete, not atomic)
//	cp <src> <dst>      copy a file
//	stat <path>         print the normalized record for a path
//	exists <path>       exit 0 if the path exists, 1 otherwise
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridmount/gridmount/internal/logger"
	"github.com/gridmount/gridmount/pkg/config"
	"github.com/gridmount/gridmount/pkg/fs"
	"github.com/gridmount/gridmount/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	// Cancel on Ctrl+C so in-flight store calls unwind cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridmount: %v\n", err)
		os.Exit(1)
	}

	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		fmt.Fprintf(os.Stderr, "gridmount: %v\n", err)
		os.Exit(1)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	store, err := config.CreateBlobStore(ctx, &cfg.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridmount: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	adapter := fs.New(store, metrics.NewFSMetrics())

	if err := run(ctx, adapter, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gridmount: %s: %v\n", args[0], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: gridmount [-config path] <command> [arguments]

Commands:
  ls [dir]            list direct children of a directory
  cat <path>          print file content to stdout
  put <path> [file]   store a file (or stdin) at path
  rm <path>           delete a file
  rmdir <dir>         delete every object under a directory
  mv <src> <dst>      rename a file
  cp <src> <dst>      copy a file
  stat <path>         print the normalized record for a path
  exists <path>       exit 0 if the path exists, 1 otherwise
`)
}

func run(ctx context.Context, adapter *fs.Adapter, command string, args []string) error {
	switch command {
	case "ls":
		return runList(ctx, adapter, args)
	case "cat":
		return runCat(ctx, adapter, args)
	case "put":
		return runPut(ctx, adapter, args)
	case "rm":
		return runRemove(ctx, adapter, args)
	case "rmdir":
		return runRemoveDir(ctx, adapter, args)
	case "mv":
		return runMove(ctx, adapter, args)
	case "cp":
		return runCopy(ctx, adapter, args)
	case "stat":
		return runStat(ctx, adapter, args)
	case "exists":
		return runExists(ctx, adapter, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runList(ctx context.Context, adapter *fs.Adapter, args []string) error {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}

	records, err := adapter.ListContents(ctx, dir, false)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.Type == fs.TypeDir {
			fmt.Printf("%-10s %12s  %s/\n", rec.Type, "-", rec.Path)
			continue
		}
		fmt.Printf("%-10s %12d  %s\n", rec.Type, rec.Size, rec.Path)
	}

	return nil
}

func runCat(ctx context.Context, adapter *fs.Adapter, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: cat <path>")
	}

	reader, err := adapter.ReadStream(ctx, args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	_, err = io.Copy(os.Stdout, reader)
	return err
}

func runPut(ctx context.Context, adapter *fs.Adapter, args []string) error {
	flags := flag.NewFlagSet("put", flag.ContinueOnError)
	mimetype := flags.String("mimetype", "", "Mimetype to store with the object")
	if err := flags.Parse(args); err != nil {
		return err
	}
	args = flags.Args()

	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: put [-mimetype type] <path> [file]")
	}

	var source io.Reader = os.Stdin
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		source = f
	}

	rec, err := adapter.WriteStream(ctx, args[0], source, fs.WriteConfig{Mimetype: *mimetype})
	if err != nil {
		return err
	}

	logger.Info("Stored %s (%d bytes)", rec.Path, rec.Size)
	return nil
}

func runRemove(ctx context.Context, adapter *fs.Adapter, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <path>")
	}
	return adapter.Delete(ctx, args[0])
}

func runRemoveDir(ctx context.Context, adapter *fs.Adapter, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rmdir <dir>")
	}
	return adapter.DeleteDir(ctx, args[0])
}

func runMove(ctx context.Context, adapter *fs.Adapter, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: mv <src> <dst>")
	}

	err := adapter.Rename(ctx, args[0], args[1])

	// Surface the partial-failure state: a failed delete step leaves live
	// copies at both paths.
	var renameErr *fs.RenameError
	if errors.As(err, &renameErr) && renameErr.Step == fs.RenameStepDelete {
		logger.Warn("Copy to %s succeeded but deleting %s failed; both paths now exist", args[1], args[0])
	}

	return err
}

func runCopy(ctx context.Context, adapter *fs.Adapter, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: cp <src> <dst>")
	}

	_, err := adapter.Copy(ctx, args[0], args[1])
	return err
}

func runStat(ctx context.Context, adapter *fs.Adapter, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: stat <path>")
	}

	rec, err := adapter.GetMetadata(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Path:      %s\n", rec.Path)
	fmt.Printf("Type:      %s\n", rec.Type)
	fmt.Printf("Size:      %d\n", rec.Size)
	fmt.Printf("Timestamp: %d\n", rec.Timestamp)
	fmt.Printf("Dirname:   %s\n", rec.Dirname)
	if rec.Mimetype != "" {
		fmt.Printf("Mimetype:  %s\n", rec.Mimetype)
	}

	return nil
}

func runExists(ctx context.Context, adapter *fs.Adapter, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: exists <path>")
	}

	ok, err := adapter.Has(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		os.Exit(1)
	}

	fmt.Println(args[0])
	return nil
}
