// oddsconv converts decimal odds between formats from the command line.
//
//	oddsconv 2.5              all formats for one price
//	oddsconv 1.8 1.85 2.1     per-leg formats plus combined parlay odds
//	oddsconv -stake 25 1.8 1.85   parlay payout and profit for a stake
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dkorenev/betmate/pkg/odds"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var stake = flag.Float64("stake", 0, "Stake to project a parlay payout for")

func main() {
	flag.Parse()
	log.SetFlags(0)

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: oddsconv [-stake N] <decimal odds> [more odds...]")
		os.Exit(2)
	}

	printer := message.NewPrinter(language.English)

	selections := make([]decimal.Decimal, 0, len(args))
	for _, arg := range args {
		dec, err := strconv.ParseFloat(arg, 64)
		if err != nil || dec <= 1 {
			log.Fatalf("bad decimal odds %q: must be a number greater than 1", arg)
		}
		selections = append(selections, decimal.NewFromFloat(dec))

		printer.Printf("%.2f  =  %s  =  %s  =  %.2f%% implied\n",
			dec,
			odds.DecimalToFractional(dec),
			odds.DecimalToAmerican(dec),
			odds.DecimalToImplied(dec))
	}

	if len(selections) < 2 && *stake <= 0 {
		return
	}

	combined := odds.ParlayOdds(selections)
	if len(selections) > 1 {
		printer.Printf("\nparlay odds: %s\n", combined.StringFixed(2))
	}

	if *stake > 0 {
		stakeDec := decimal.NewFromFloat(*stake)
		printer.Printf("stake %s returns %s (profit %s)\n",
			stakeDec.StringFixed(2),
			odds.PotentialPayout(stakeDec, combined).StringFixed(2),
			odds.Profit(stakeDec, combined).StringFixed(2))
	}
}
