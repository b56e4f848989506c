// Command bookctl talks to a running salon booking API: it prints the
// menu and opening hours, looks up free slots and books them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/bookingclient"
	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
)

const defaultAPI = "http://localhost:8080"

const usage = `usage: bookctl <command> [flags]

commands:
  catalog                       list services by category
  hours                         show opening hours
  slots --service S [--date D]  first free day on or after D
  book  --service S --date D --time HH:MM --name N [--category C]
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, pflag.ErrHelp) {
			if err != errUsage && err != pflag.ErrHelp {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			}
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", bookingclient.ErrorText(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]

	flags := pflag.NewFlagSet("bookctl "+cmd, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	api := flags.String("api", envOr("BOOKCTL_API", defaultAPI), "booking API base URL")
	verbose := flags.BoolP("verbose", "v", false, "log HTTP calls")

	var service, date, at, name, category string
	switch cmd {
	case "slots":
		flags.StringVarP(&service, "service", "s", "", "service name")
		flags.StringVarP(&date, "date", "d", "", "start date (YYYY-MM-DD, default today)")
	case "book":
		flags.StringVarP(&service, "service", "s", "", "service name")
		flags.StringVarP(&date, "date", "d", "", "date (YYYY-MM-DD)")
		flags.StringVarP(&at, "time", "t", "", "start time (HH:MM)")
		flags.StringVarP(&name, "name", "n", "", "client name")
		flags.StringVarP(&category, "category", "c", "", "service category")
	case "catalog", "hours":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if err := flags.Parse(rest); err != nil {
		return err
	}

	log := zap.NewNop()
	if *verbose {
		log, _ = zap.NewDevelopment()
	}
	client := bookingclient.New(*api, log)

	switch cmd {
	case "catalog":
		return printCatalog(ctx, client, out)
	case "hours":
		return printHours(ctx, client, out)
	case "slots":
		return printSlots(ctx, client, out, service, date)
	default:
		req := dto.CreateBookingRequest{
			Service:    service,
			Date:       date,
			Time:       at,
			ClientName: name,
		}
		if category != "" {
			req.Category = &category
		}
		return book(ctx, client, out, req)
	}
}

// ======================================================
// COMMANDS
// ======================================================

func printCatalog(ctx context.Context, client *bookingclient.Client, out io.Writer) error {
	groups, err := client.Catalog(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, catalog.FormatGroups(groups))
	return err
}

func printHours(ctx context.Context, client *bookingclient.Client, out io.Writer) error {
	hours, err := client.Hours(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hours.Text)
	return err
}

func printSlots(ctx context.Context, client *bookingclient.Client, out io.Writer, service, date string) error {
	if strings.TrimSpace(service) == "" {
		return fmt.Errorf("%w: --service is required", errUsage)
	}

	from := domain.DateOf(time.Now())
	if date != "" {
		d, err := domain.ParseDate(date)
		if err != nil {
			return fmt.Errorf("%w: --date: %v", errUsage, err)
		}
		from = d
	}

	got, err := client.AvailableTimes(ctx, service, from)
	if err != nil {
		return err
	}

	if !got.Found() {
		_, err = fmt.Fprintf(out, "no free slots for %s in the next %d days\n", service, domain.LookaheadDays)
		return err
	}

	_, err = fmt.Fprintf(out, "%s (%s): %s\n",
		domain.FormatDate(got.Date),
		got.Date.Weekday(),
		strings.Join(got.TimeStrings(), " "),
	)
	return err
}

func book(ctx context.Context, client *bookingclient.Client, out io.Writer, req dto.CreateBookingRequest) error {
	var missing []string
	for _, f := range []struct{ flag, value string }{
		{"--service", req.Service},
		{"--date", req.Date},
		{"--time", req.Time},
		{"--name", req.ClientName},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.flag)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", errUsage, strings.Join(missing, ", "))
	}

	b, err := client.CreateBooking(ctx, req)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "booked %s on %s at %s for %s\nreference: %s\n",
		b.Service, b.Date, b.Time, b.ClientName, b.Reference)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
