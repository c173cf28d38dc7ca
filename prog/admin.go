package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/geop/globe/admin"
)

var (
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	running = color.New(color.FgYellow)
	subtle  = color.New(color.FgHiBlack)
)

func adminUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "usage: admin [flags] (reboot|refresh|fetch START END|process|reset [JOB]|status [JOB]|watch [JOB])\n")
	fs.PrintDefaults()
}

// adminMain drives the backend's job control surface and returns the exit
// status.
func adminMain(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	var (
		backendURL = fs.String("backend.url", "http://127.0.0.1:8000", "base URL of the backend")
		mode       = fs.String("mode", string(admin.ProcessMissingStates), "processing mode: all|last_n|missing_extraction|missing_states")
		limit      = fs.Int("limit", admin.DefaultProcessLimit, "rows per processing run; 0 lets the backend decide")
		interval   = fs.Duration("poll.interval", admin.DefaultPollInterval, "job status poll interval for watch")
	)
	fs.Usage = func() { adminUsage(fs) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}

	var (
		client = admin.NewClient(*backendURL)
		ctx    = context.Background()
		cmd    = fs.Arg(0)
		job    = admin.LLMProcessingJob
		result admin.Result
		err    error
	)
	if fs.NArg() > 1 && cmd != "fetch" {
		job = fs.Arg(1)
	}

	switch cmd {
	case "reboot":
		result, err = client.RebootFull(ctx)
	case "refresh":
		result, err = client.RefreshIncremental(ctx)
	case "fetch":
		var start, end time.Time
		start, end, err = parsePeriod(fs.Args()[1:])
		if err == nil {
			result, err = client.FetchPeriod(ctx, start, end)
		}
	case "process":
		result, err = client.Process(ctx, admin.ProcessMode(*mode), *limit)
	case "reset":
		result, err = client.ResetJob(ctx, job)
	case "status":
		var status admin.JobStatus
		if status, err = client.JobStatus(ctx, job); err == nil {
			printStatus(out, status)
			return 0
		}
	case "watch":
		return watch(out, client, job, *interval)
	default:
		fs.Usage()
		return 2
	}

	if err != nil {
		bad.Fprintf(out, "%s failed: %v\n", cmd, err)
		return 1
	}
	printResult(out, cmd, result)
	return 0
}

func parsePeriod(args []string) (time.Time, time.Time, error) {
	if len(args) != 2 {
		return time.Time{}, time.Time{}, errors.New("fetch needs START and END dates (YYYY-MM-DD)")
	}
	start, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "parsing START")
	}
	end, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "parsing END")
	}
	return start, end, nil
}

func printResult(out io.Writer, cmd string, result admin.Result) {
	good.Fprintf(out, "%s: %s\n", cmd, result.Status())
	for k, v := range result {
		if k == "status" {
			continue
		}
		subtle.Fprintf(out, "  %s: %v\n", k, v)
	}
}

func printStatus(out io.Writer, s admin.JobStatus) {
	c := good
	switch s.Status {
	case admin.StatusRunning:
		c = running
	case admin.StatusFailed:
		c = bad
	}
	c.Fprintf(out, "%s: %s", s.JobName, s.Status)
	if s.StartedAt != "" {
		subtle.Fprintf(out, " started %s", s.StartedAt)
	}
	if s.FinishedAt != "" {
		subtle.Fprintf(out, " finished %s", s.FinishedAt)
	}
	fmt.Fprintln(out)
	if s.Error != "" {
		bad.Fprintf(out, "  %s\n", s.Error)
	}
}

// watch prints the job's status every time it changes, until interrupted.
func watch(out io.Writer, client *admin.Client, job string, interval time.Duration) int {
	var last admin.JobStatus
	poller := admin.NewPoller(client, job, interval, func(s admin.JobStatus) {
		if s != last {
			printStatus(out, s)
			last = s
		}
	})
	poller.Start()
	defer poller.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	return 0
}
