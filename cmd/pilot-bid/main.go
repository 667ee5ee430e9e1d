// pilot-bid is a terminal rendition of the pilot bid page. It resolves an
// invitation token against the API, shows the job, and optionally submits
// a bid.
//
//	pilot-bid --server http://localhost:8080 abc123
//	pilot-bid --server http://localhost:8080 --price 450 --eta 10 abc123
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"pilot-bidding-api/internal/bidpage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		server   string
		price    string
		eta      int
		notes    string
		currency string
		timeout  time.Duration
	)

	flagSet := pflag.NewFlagSet("pilot-bid", pflag.ContinueOnError)
	flagSet.StringVar(&server, "server", "http://localhost:8080", "base URL of the bidding API")
	flagSet.StringVar(&price, "price", "", "bid amount, e.g. 450 or 1500.00 (omit to only view the invitation)")
	flagSet.IntVar(&eta, "eta", 0, "days until the job can be completed (1-365)")
	flagSet.StringVar(&notes, "notes", "", "optional notes for the customer")
	flagSet.StringVar(&currency, "currency", "GBP", "bid currency")
	flagSet.DurationVar(&timeout, "timeout", 15*time.Second, "per-request timeout")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) != 1 {
		printHelp(flagSet)
		return errors.New("exactly one invitation token is required")
	}

	var form *bidpage.BidForm
	if price != "" {
		amount, err := decimal.NewFromString(price)
		if err != nil {
			return fmt.Errorf("--price: %w", err)
		}
		form = &bidpage.BidForm{PriceAmount: amount, Currency: currency, EtaDays: eta}
		if notes != "" {
			form.Notes = &notes
		}
	}

	client := bidpage.NewClient(server, nil)
	page := bidpage.NewPage(client, args[0])

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	loadErr := page.Load(ctx)
	if form == nil || page.State() != bidpage.StateReadyToBid {
		if err := page.Render(os.Stdout); err != nil {
			return err
		}
		if loadErr != nil {
			return errors.New(page.Message())
		}
		if form != nil {
			return errors.New("this invitation is no longer open for bids")
		}
		return nil
	}

	submitErr := page.Submit(ctx, *form)
	if err := page.Render(os.Stdout); err != nil {
		return err
	}
	if submitErr != nil && page.State() != bidpage.StateAlreadyBid {
		return errors.New(page.Message())
	}
	if page.State() == bidpage.StateAlreadyBid {
		return errors.New("a bid had already been submitted")
	}

	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: pilot-bid [flags] <token>\n\nFlags:\n")
	flagSet.PrintDefaults()
}
