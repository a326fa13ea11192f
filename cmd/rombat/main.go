// Command rombat lists the ROM images in a directory tree that declare
// battery-backed save RAM and writes them to output.txt next to the directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/retroenv/retrogolib/buildinfo"
	"golang.org/x/text/message"

	"github.com/ZaparooProject/go-rombat"
	"github.com/ZaparooProject/go-rombat/detector"
	"github.com/ZaparooProject/go-rombat/internal/i18n"
	"github.com/ZaparooProject/go-rombat/internal/prompt"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

// Exit codes
const (
	exitOK       = 0
	exitUsage    = 1
	exitNotFound = 2
	exitNotDir   = 3
	exitFailed   = 4
)

type optionFlags struct {
	dir    string
	lang   string
	output string

	workers   int
	strictSMD bool

	verbose bool
	wait    bool
	version bool
}

// Invocation errors, mapped to exit codes by describe.
type (
	usageError       struct{ args int }
	dirNotFoundError struct{ err error }
	notDirError      struct{ path string }
	scanError        struct{ err error }
	writeError       struct{ err error }
)

func (e usageError) Error() string {
	return fmt.Sprintf("expected one directory, got %d arguments", e.args)
}

func (e dirNotFoundError) Error() string {
	return e.err.Error()
}

func (e notDirError) Error() string {
	return e.path + " is not a directory"
}

func (e scanError) Error() string {
	return e.err.Error()
}

func (e writeError) Error() string {
	return e.err.Error()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, func() error {
		return prompt.WaitForKey(os.Stdin)
	})
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code.
// waitKey is called before a failing exit when -wait is given.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, waitKey func() error) int {
	flags := flag.NewFlagSet("rombat", flag.ContinueOnError)
	flags.SetOutput(stderr)

	options := optionFlags{}
	flags.StringVar(&options.lang, "lang", "", "message language (en, de), taken from the locale if omitted")
	flags.StringVar(&options.output, "o", "", "report file path (default: output.txt in the parent of the directory)")
	flags.IntVar(&options.workers, "j", runtime.NumCPU(), "number of files classified in parallel")
	flags.BoolVar(&options.strictSMD, "strict-smd", false, "only treat files with a .smd extension as SMD dumps")
	flags.BoolVar(&options.verbose, "v", false, "list every classified file")
	flags.BoolVar(&options.wait, "wait", false, "wait for a keypress before exiting on error")
	flags.BoolVar(&options.version, "version", false, "print version and exit")
	flags.Usage = func() { printUsage(flags, stderr) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if options.version {
		fmt.Fprintf(stdout, "rombat version %s\n", buildinfo.Version(version, commit, date))
		return exitOK
	}

	lang := i18n.Detect(options.lang, os.Getenv("LC_ALL"), os.Getenv("LC_MESSAGES"), os.Getenv("LANG"))
	printer := i18n.NewPrinter(lang)

	err := execute(ctx, options, flags.Args(), printer, stdout)
	if err == nil {
		return exitOK
	}

	msg, code := describe(err, printer)
	fmt.Fprintln(stderr, msg)
	if options.wait {
		fmt.Fprintln(stderr, printer.Sprintf(i18n.PressAnyKey))
		if waitErr := waitKey(); waitErr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", waitErr)
		}
	}
	return code
}

func execute(ctx context.Context, options optionFlags, args []string, printer *message.Printer, stdout io.Writer) error {
	if len(args) != 1 {
		return usageError{args: len(args)}
	}
	options.dir = args[0]

	info, err := os.Stat(options.dir)
	if err != nil {
		return dirNotFoundError{err: err}
	}
	if !info.IsDir() {
		return notDirError{path: options.dir}
	}

	scanOptions := rombat.ScanOptions{
		DispatchOptions: rombat.DispatchOptions{StrictSMD: options.strictSMD},
		Workers:         options.workers,
	}
	entries, err := rombat.Scan(ctx, options.dir, scanOptions)
	if err != nil {
		return scanError{err: err}
	}

	lines := rombat.BuildReport(entries, printer.Sprintf(i18n.FileUnreadable))

	path := options.output
	if path == "" {
		path = rombat.ReportPath(options.dir)
	}
	if err := rombat.WriteReport(path, lines); err != nil {
		return writeError{err: err}
	}

	if options.verbose {
		printEntries(stdout, entries)
		fmt.Fprintln(stdout, printer.Sprintf(i18n.ReportWritten, len(lines), path))
	}
	return nil
}

// describe returns the localized message and exit code for an error from execute.
func describe(err error, printer *message.Printer) (string, int) {
	var (
		usage    usageError
		notFound dirNotFoundError
		notDir   notDirError
		scan     scanError
		write    writeError
	)
	switch {
	case errors.As(err, &usage):
		return printer.Sprintf(i18n.MissingDirectory), exitUsage
	case errors.As(err, &notFound):
		return printer.Sprintf(i18n.DirectoryNotFound), exitNotFound
	case errors.As(err, &notDir):
		return printer.Sprintf(i18n.NotADirectory), exitNotDir
	case errors.As(err, &scan):
		return printer.Sprintf(i18n.ScanFailed, scan.err), exitFailed
	case errors.As(err, &write):
		return printer.Sprintf(i18n.WriteFailed, write.err), exitFailed
	default:
		return err.Error(), exitFailed
	}
}

func printEntries(w io.Writer, entries []rombat.Entry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCONSOLE\tFILE\tTITLE\tDETAILS")
	for _, e := range entries {
		details := e.Classification.Hardware
		if e.Classification.Kind == detector.Unreadable && e.Classification.Err != nil {
			details = e.Classification.Err.Error()
		}
		console := string(e.Console)
		if console == "" {
			console = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Classification.Kind, console, e.Path, e.Classification.Title, details)
	}
	_ = tw.Flush()
}

func printUsage(flags *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "usage: rombat [options] <directory>\n\n")
	fmt.Fprintf(w, "Lists ROM images that declare battery-backed save RAM.\n")
	fmt.Fprintf(w, "Recognized extensions: %s\n\n", strings.Join(rombat.SupportedExtensions(), " "))
	fmt.Fprintf(w, "Options:\n")
	flags.PrintDefaults()
}
